package e2e

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestInjectAngularApp runs the built CLI against a copy of testdata/angular-app.
func TestInjectAngularApp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	t.Parallel()

	repoRoot, binaryPath := buildCLIBinary(t)

	// Work entirely in a temp copy so repo files are never modified
	appDir := filepath.Join(t.TempDir(), "angular-app")
	if err := copyDir(filepath.Join(repoRoot, "testdata", "angular-app"), appDir); err != nil {
		t.Fatalf("failed to copy fixture: %v", err)
	}
	sourceRoot := filepath.Join(appDir, "src", "app")
	configPath := filepath.Join(appDir, ".injectgen.yaml")

	run := func(args ...string) string {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cmd := exec.CommandContext(ctx, binaryPath, append(args, "--config", configPath)...)
		cmd.Dir = appDir
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, string(out))
		}
		return string(out)
	}

	run("config", "init", configPath)

	userList := filepath.Join(sourceRoot, "user-list", "user-list.component.ts")
	orderList := filepath.Join(sourceRoot, "order-list", "order-list.component.ts")
	app := filepath.Join(sourceRoot, "app.component.ts")
	original := readFile(t, userList)

	run("inject", "--name", "logger", "--path", sourceRoot, "--backup",
		"--file", userList, "--file", orderList, "--file", app)

	checks := map[string][]string{
		userList: {
			"import { Router } from '@angular/router';\nimport { LoggerService } from '../logger/logger.service';\n",
			"    private router: Router,\n    private loggerService: LoggerService,\n  ) {}",
		},
		orderList: {
			"import { LoggerService } from '../logger/logger.service';\nexport class OrderListComponent {",
			"constructor(private loggerService: LoggerService) {}",
		},
		app: {
			"import { LoggerService } from './logger/logger.service';",
			"export class AppComponent {\n  constructor(private loggerService: LoggerService) {\n    // this.loggerService is ready to use\n  }\n\n  title = 'shop';",
		},
	}
	for path, wants := range checks {
		got := readFile(t, path)
		for _, want := range wants {
			if !strings.Contains(got, want) {
				t.Fatalf("%s does not contain %q:\n%s", path, want, got)
			}
		}
	}

	if backup := readFile(t, userList+".backup"); backup != original {
		t.Fatalf("backup differs from the original:\n%s", backup)
	}

	// a second run is a no-op
	patched := readFile(t, userList)
	run("inject", "--name", "logger", "--path", sourceRoot, "--file", userList)
	if again := readFile(t, userList); again != patched {
		t.Fatalf("second run modified the file:\n%s", again)
	}

	if out := run("list", "components", sourceRoot); !strings.Contains(out, "3 file(s)") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
