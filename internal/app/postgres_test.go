package app

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/sharepeak/config"
)

var testPostgres = config.Config{Postgres: config.PostgresConfig{
	User:     "reader",
	Password: "secret",
	Host:     "db.local",
	Port:     5433,
	DBName:   "sharepeak",
	SSLMode:  "require",
}}

func TestInitPostgres_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		openErr error
		pingErr error
		wantErr string
	}{
		{name: "open error", openErr: errors.New("driver missing"), wantErr: "failed to open postgres"},
		{name: "ping error closes handle", pingErr: errors.New("connection refused"), wantErr: "failed to ping postgres"},
		{name: "ok"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				gotDriver, gotDSN string
				mock              sqlmock.Sqlmock
			)
			old := sqlOpener
			sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
				gotDriver, gotDSN = driverName, dataSourceName
				if tc.openErr != nil {
					return nil, tc.openErr
				}
				db, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
				if err != nil {
					t.Fatalf("sqlmock new: %v", err)
				}
				mock = m
				ping := mock.ExpectPing()
				if tc.pingErr != nil {
					ping.WillReturnError(tc.pingErr)
					mock.ExpectClose()
				}
				return db, nil
			}
			t.Cleanup(func() { sqlOpener = old })

			db, err := InitPostgres(testPostgres)
			if gotDriver != "postgres" || gotDSN != config.DSN(testPostgres.Postgres) {
				t.Fatalf("opened %s %q, want postgres %q", gotDriver, gotDSN, config.DSN(testPostgres.Postgres))
			}

			if tc.wantErr != "" {
				if err == nil || db != nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("want %q error and no db, got db=%v err=%v", tc.wantErr, db, err)
				}
				if tc.pingErr != nil && !errors.Is(err, tc.pingErr) {
					t.Fatalf("ping cause not wrapped: %v", err)
				}
			} else {
				if err != nil || db == nil {
					t.Fatalf("unexpected err=%v db=%v", err, db)
				}
				mock.ExpectClose()
				_ = db.Close()
			}

			if mock != nil {
				if err := mock.ExpectationsWereMet(); err != nil {
					t.Fatalf("unmet expectations: %v", err)
				}
			}
		})
	}
}
