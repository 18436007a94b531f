package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestCustomersMigratesBeforeOrders(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)

	var customers, orders string
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.Contains(name, "create_customers"):
			customers = name
		case strings.Contains(name, "create_orders"):
			orders = name
		}
	}
	require.NotEmpty(t, customers)
	require.NotEmpty(t, orders)

	// Orders reference customers, so the customers table must exist first.
	assert.Less(t, customers, orders)

	sql, err := os.ReadFile(filepath.Join("migrations", orders))
	require.NoError(t, err)
	assert.Contains(t, string(sql), "REFERENCES customers")
}
