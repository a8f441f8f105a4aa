package backend_test

import (
	"path/filepath"
	"testing"

	"github.com/openadmit/openadmit/pkg/configs/backend"
)

func TestConfigMarshall(t *testing.T) {
	t.Run("it loads config from yaml: ", func(t *testing.T) {
		backendYml := []byte(`
dburi: "postgres://admit-pgdb-svc:5432/admit"
`)
		result, err := backend.Unmarshal(backendYml)
		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}

		t.Run(".dburi", func(t *testing.T) {
			actual := result.DBURI
			expected := "postgres://admit-pgdb-svc:5432/admit"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})
	})
}

func TestLoadBackendConfig(t *testing.T) {
	t.Run("it loads the testdata config file", func(t *testing.T) {
		result, err := backend.LoadBackendConfig(filepath.Join("testdata", "config.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		if result.DBURI == "" {
			t.Errorf("unexpected config: %+v", result)
		}
	})

	t.Run("a missing file is an error", func(t *testing.T) {
		if _, err := backend.LoadBackendConfig(filepath.Join("testdata", "no-such.yaml")); err == nil {
			t.Error("expected error does not occured")
		}
	})
}
