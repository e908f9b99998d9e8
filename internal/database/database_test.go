package database

import "testing"

func TestDriverFor(t *testing.T) {
	cases := map[string]string{
		"pharmacy.db":                          DriverSQLite,
		":memory:":                             DriverSQLite,
		"file:test.db?cache=shared":            DriverSQLite,
		"postgres://u:p@localhost:5432/pharma": DriverPostgres,
		"postgresql://u:p@localhost/pharma":    DriverPostgres,
	}
	for dsn, want := range cases {
		if got := DriverFor(dsn); got != want {
			t.Errorf("DriverFor(%q) = %q, want %q", dsn, got, want)
		}
	}
}

func TestConnectSQLiteMemory(t *testing.T) {
	db, err := Connect(":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	var fk int
	if err := db.Get(&fk, `PRAGMA foreign_keys`); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("expected foreign keys on, got %d", fk)
	}
}
