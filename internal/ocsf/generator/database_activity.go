package generator

import (
	"fmt"
	"math/rand/v2"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// DatabaseActivity generates OCSF Database Activity (5001) events.
type DatabaseActivity struct {
	pools *AttributePools

	operations []namedID
	databases  []string
	tables     map[string][]string
	users      []string
	privileges []string
}

// NewDatabaseActivity creates a Database Activity generator.
func NewDatabaseActivity(pools *AttributePools) *DatabaseActivity {
	return &DatabaseActivity{
		pools: pools,
		operations: []namedID{
			{"SELECT", 1}, {"INSERT", 2}, {"UPDATE", 3}, {"DELETE", 4},
			{"CREATE", 5}, {"ALTER", 6}, {"DROP", 7}, {"GRANT", 8}, {"REVOKE", 9},
		},
		databases: []string{"users_db", "orders_db", "products_db", "analytics_db", "audit_db"},
		tables: map[string][]string{
			"users_db":     {"users", "roles", "permissions", "sessions"},
			"orders_db":    {"orders", "order_items", "shipments", "invoices"},
			"products_db":  {"products", "categories", "inventory", "suppliers"},
			"analytics_db": {"events", "metrics", "reports", "dashboards"},
			"audit_db":     {"access_logs", "changes", "alerts", "incidents"},
		},
		users:      []string{"db_admin", "app_user", "reporting_user", "backup_user", "readonly_user"},
		privileges: []string{"SELECT", "INSERT", "UPDATE", "DELETE", "ALL"},
	}
}

func (g *DatabaseActivity) Class() ocsf.Class { return ocsf.DatabaseActivity }

type databaseObject struct {
	Name         string   `json:"name"`
	Instance     string   `json:"instance"`
	Schema       string   `json:"schema"`
	Operation    string   `json:"operation"`
	Query        string   `json:"query"`
	RowsAffected int      `json:"rows_affected,omitempty"`
	RowsReturned int      `json:"rows_returned,omitempty"`
	Privileges   []string `json:"privileges,omitempty"`
}

type databaseActivityEvent struct {
	ocsf.BaseEvent

	Database    databaseObject `json:"database"`
	Actor       ocsf.Actor     `json:"actor"`
	SrcEndpoint ocsf.Endpoint  `json:"src_endpoint"`
	DstEndpoint ocsf.Endpoint  `json:"dst_endpoint"`
}

// sampleQuery renders a placeholder SQL statement for the operation.
func sampleQuery(operation, table string) string {
	switch operation {
	case "SELECT":
		return fmt.Sprintf("SELECT * FROM %s WHERE id = ?", table)
	case "INSERT":
		return fmt.Sprintf("INSERT INTO %s (column1, column2) VALUES (?, ?)", table)
	case "UPDATE":
		return fmt.Sprintf("UPDATE %s SET column1 = ? WHERE id = ?", table)
	case "DELETE":
		return fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
	case "CREATE":
		return fmt.Sprintf("CREATE TABLE %s (id INT PRIMARY KEY, name VARCHAR(255))", table)
	case "ALTER":
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN new_column VARCHAR(255)", table)
	case "DROP":
		return fmt.Sprintf("DROP TABLE %s", table)
	case "GRANT":
		return fmt.Sprintf("GRANT SELECT, INSERT ON %s TO user", table)
	case "REVOKE":
		return fmt.Sprintf("REVOKE ALL ON %s FROM user", table)
	}
	return ""
}

func (g *DatabaseActivity) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	op := pick(rng, g.operations)
	db := pick(rng, g.databases)
	table := pick(rng, g.tables[db])

	ev := &databaseActivityEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.DatabaseActivity.UID,
			ClassName:    ocsf.DatabaseActivity.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   op.id,
			ActivityName: op.name,
			Status:       "Success",
			StatusID:     1,
			Severity:     "Info",
			SeverityID:   1,
			Metadata:     ocsf.NewMetadata("Database Monitor", ocsf.Timestamp(ts)),
		},
		Database: databaseObject{
			Name:      db,
			Instance:  fmt.Sprintf("%s-%d", db, 1+rng.IntN(5)),
			Schema:    table,
			Operation: op.name,
			Query:     sampleQuery(op.name, table),
		},
		Actor: ocsf.Actor{
			User: &ocsf.User{
				Name: pick(rng, g.users),
				UID:  newUID(rng),
				Type: "Database User",
			},
		},
		SrcEndpoint: ocsf.Endpoint{
			IP:       randInternalIP(rng),
			Hostname: fmt.Sprintf("app-server-%d", 1+rng.IntN(100)),
		},
		DstEndpoint: ocsf.Endpoint{
			IP:       randInternalIP(rng),
			Hostname: fmt.Sprintf("db-server-%d", 1+rng.IntN(10)),
			Port:     3306,
		},
	}

	switch op.name {
	case "INSERT", "UPDATE", "DELETE":
		ev.Database.RowsAffected = 1 + rng.IntN(1000)
	case "SELECT":
		ev.Database.RowsReturned = 1 + rng.IntN(10000)
	case "GRANT", "REVOKE":
		ev.Database.Privileges = sample(rng, g.privileges, 1+rng.IntN(3))
	}

	return ev
}
