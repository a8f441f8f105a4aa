package frontend_test

import (
	"path/filepath"
	"testing"

	"github.com/openadmit/openadmit/pkg/configs/frontend"
)

func TestConfigMarshall(t *testing.T) {
	t.Run("it loads config from yaml: ", func(t *testing.T) {
		frontendYml := []byte(`
port: "8080"
dburi: "postgres://admit-pgdb-svc:5432/admit"
authSecret: "secret-of-testing"
provisioning:
    endpoint: "http://members.example.org/api/members"
    token: "provisioning-token"
storage:
    root: "/var/lib/openadmit/documents"
`)
		result, err := frontend.Unmarshal(frontendYml)
		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}

		t.Run(".port", func(t *testing.T) {
			actual := result.ServerPort
			expected := "8080"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})

		t.Run(".dburi", func(t *testing.T) {
			actual := result.DBURI
			expected := "postgres://admit-pgdb-svc:5432/admit"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})

		t.Run(".authSecret", func(t *testing.T) {
			actual := result.AuthSecret
			expected := "secret-of-testing"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})

		t.Run(".provisioning.endpoint", func(t *testing.T) {
			actual := result.Provisioning.Endpoint
			expected := "http://members.example.org/api/members"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})

		t.Run(".provisioning.token", func(t *testing.T) {
			actual := result.Provisioning.Token
			expected := "provisioning-token"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})

		t.Run(".storage.root", func(t *testing.T) {
			actual := result.Storage.Root
			expected := "/var/lib/openadmit/documents"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})
	})

	t.Run("it rejects broken yaml", func(t *testing.T) {
		if _, err := frontend.Unmarshal([]byte(`port: [`)); err == nil {
			t.Error("expected error does not occured")
		}
	})
}

func TestLoadFrontendConfig(t *testing.T) {
	t.Run("it loads the testdata config file", func(t *testing.T) {
		result, err := frontend.LoadFrontendConfig(filepath.Join("testdata", "config.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		if result.ServerPort != "8080" || result.AuthSecret != "test-secret" {
			t.Errorf("unexpected config: %+v", result)
		}
	})

	t.Run("a missing file is an error", func(t *testing.T) {
		if _, err := frontend.LoadFrontendConfig(filepath.Join("testdata", "no-such.yaml")); err == nil {
			t.Error("expected error does not occured")
		}
	})
}
