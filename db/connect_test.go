package db

import (
	"testing"

	"budget-server/confs"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  confs.Config
		want string
	}{
		{
			name: "url gets sslmode",
			cfg:  confs.Config{DatabaseURL: "postgres://u:p@db.example.com/budget"},
			want: "postgres://u:p@db.example.com/budget?sslmode=require",
		},
		{
			name: "url with query keeps params",
			cfg:  confs.Config{DatabaseURL: "postgres://u:p@db/budget?connect_timeout=5"},
			want: "postgres://u:p@db/budget?connect_timeout=5&sslmode=require",
		},
		{
			name: "explicit sslmode untouched",
			cfg:  confs.Config{DatabaseURL: "postgres://u:p@db/budget?sslmode=disable"},
			want: "postgres://u:p@db/budget?sslmode=disable",
		},
		{
			name: "localhost parameters disable ssl",
			cfg:  confs.Config{DBHost: "localhost", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "budget"},
			want: "host=localhost user=u password=p dbname=budget port=5432 sslmode=disable TimeZone=UTC",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DSN(&tc.cfg))
		})
	}
}
