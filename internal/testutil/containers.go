// Helpers for running integration tests against real backing services.
// Expects environment variables to be loaded from .env files.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContainers owns the backing services for integration runs: a MariaDB
// instance and an Authorizer identity server sharing one docker network.
type TestContainers struct {
	Network             *testcontainers.DockerNetwork
	DBContainer         testcontainers.Container
	AuthorizerContainer testcontainers.Container

	// Host-reachable endpoints, populated once the containers are up.
	DBHost    string
	DBPort    string
	AuthzURL  string
	ClientID  string
	AdminPass string
}

func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.AuthorizerContainer != nil {
		if err := tc.AuthorizerContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Authorizer: %v", err)
		}
	}
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate MariaDB: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateTestContainers starts MariaDB and Authorizer and waits until both
// accept connections. t may be nil when called from the standalone runner.
func CreateTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	tc := &TestContainers{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create network: %w", err)
	}
	tc.Network = nw
	networkName := nw.Name

	dbNetworkName := envOr("DB_HOST", "mariadb")
	tcpDbPort, err := nat.NewPort("tcp", envOr("DB_PORT", "3306"))
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("create db port: %w", err)
	}

	rootPassword := envOr("DB_ROOT_PASSWORD", uuid.New().String())
	dbName := envOr("DB_DATABASE", "creator")
	dbUser := envOr("DB_USER", "creator")
	dbPassword := envOr("DB_PASSWORD", uuid.New().String())

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        envOr("DB_IMAGE", "mariadb:11"),
			ExposedPorts: []string{string(tcpDbPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": rootPassword,
				"MARIADB_DATABASE":      dbName,
				"MARIADB_USER":          dbUser,
				"MARIADB_PASSWORD":      dbPassword,
			},
			WaitingFor: wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {dbNetworkName},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("start mariadb: %w", err)
	}
	tc.DBContainer = dbContainer

	dbHost, _ := dbContainer.Host(ctx)
	dbPort, _ := dbContainer.MappedPort(ctx, tcpDbPort)
	tc.DBHost = dbHost
	tc.DBPort = dbPort.Port()

	if err := waitForDatabase(dbUser, dbPassword, dbHost, dbPort.Port(), dbName); err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("database never became ready: %w", err)
	}

	// Authorizer uses its own database on the same server.
	authzDatabase := envOr("AUTHZ_DATABASE", "authorizer")
	if err := createDatabase(rootPassword, dbHost, dbPort.Port(), authzDatabase); err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("create authorizer database: %w", err)
	}

	authzPortNumber := envOr("AUTHZ_PORT", "8080")
	tcpAuthzPort, err := nat.NewPort("tcp", authzPortNumber)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("create authorizer port: %w", err)
	}

	tc.ClientID = envOr("AUTHZ_CLIENT_ID", uuid.New().String())
	tc.AdminPass = envOr("AUTHZ_ADMIN_SECRET", uuid.New().String())
	authzDbConnection := fmt.Sprintf("root:%s@tcp(%s:%s)/%s",
		rootPassword, dbNetworkName, envOr("DB_PORT", "3306"), authzDatabase)

	authorizerContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        envOr("AUTHZ_IMAGE", "lakhansamani/authorizer:1.4.4"),
			ExposedPorts: []string{string(tcpAuthzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     tc.ClientID,
				"PORT":          authzPortNumber,
				"DATABASE_TYPE": "mariadb",
				"DATABASE_NAME": authzDatabase,
				"DATABASE_URL":  authzDbConnection,
				"ADMIN_SECRET":  tc.AdminPass,
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
				"LOG_LEVEL":     "info",
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {"authorizer"},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("start authorizer: %w", err)
	}
	tc.AuthorizerContainer = authorizerContainer

	authzHost, _ := authorizerContainer.Host(ctx)
	authzPort, _ := authorizerContainer.MappedPort(ctx, tcpAuthzPort)
	tc.AuthzURL = fmt.Sprintf("http://%s:%s", authzHost, authzPort.Port())
	logMessage(t, "AUTHZ_URL=%s", tc.AuthzURL)

	return tc, nil
}

// waitForDatabase polls until the server accepts authenticated queries.
// The listening port comes up before the grant tables are loaded.
func waitForDatabase(user, password, host, port, name string) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", user, password, host, port, name)
	var lastErr error
	for i := 0; i < 30; i++ {
		db, err := sql.Open("mysql", dsn)
		if err == nil {
			lastErr = db.Ping()
			db.Close()
			if lastErr == nil {
				return nil
			}
		} else {
			lastErr = err
		}
		time.Sleep(time.Second)
	}
	return lastErr
}

func createDatabase(rootPassword, host, port, name string) error {
	dsn := fmt.Sprintf("root:%s@tcp(%s:%s)/", rootPassword, host, port)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + name)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logMessage(t *testing.T, format string, args ...interface{}) {
	if t != nil {
		t.Logf(format, args...)
		return
	}
	fmt.Printf(format+"\n", args...)
}
