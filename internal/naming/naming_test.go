package naming

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCasing(t *testing.T) {
	cases := []struct {
		in        string
		classify  string
		camelize  string
		dasherize string
	}{
		{"logger", "Logger", "logger", "logger"},
		{"user-list", "UserList", "userList", "user-list"},
		{"user_list", "UserList", "userList", "user-list"},
		{"LoggerService", "LoggerService", "loggerService", "logger-service"},
		{"loggerService", "LoggerService", "loggerService", "logger-service"},
		{"HTTPClient", "HTTPClient", "httpClient", "http-client"},
		{"user.component", "UserComponent", "userComponent", "user-component"},
		{"oauth2Token", "Oauth2Token", "oauth2Token", "oauth2-token"},
		{"", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.classify, Classify(tc.in))
			require.Equal(t, tc.camelize, Camelize(tc.in))
			require.Equal(t, tc.dasherize, Dasherize(tc.in))
		})
	}
}

func TestRelativeModule(t *testing.T) {
	root := filepath.FromSlash("/work/src/app")

	cases := []struct {
		name    string
		fromDir string
		target  string
		want    string
	}{
		{"sibling folder", Join(root, "user"), Join(root, "logger", "logger.service.ts"), "../logger/logger.service"},
		{"same folder", Join(root, "user"), Join(root, "user", "user.service.ts"), "./user.service"},
		{"nested", root, Join(root, "core", "api.service.tsx"), "./core/api.service"},
		{"keeps other extensions", root, Join(root, "data.json"), "./data.json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RelativeModule(tc.fromDir, tc.target)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
