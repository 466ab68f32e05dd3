package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/internal/daemon"
)

func TestLoadConfigReadsFlagsAndEnvironment(test *testing.T) {
	test.Setenv("RPLEDGER_JWT_SIGNING_KEY", "from-env")
	test.Setenv("RPLEDGER_ADMIN_ROLES", "staff, owner")
	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"--data-dir", "/srv/rp", "--request-timeout", "2s"}); err != nil {
		test.Fatalf("parse flags failed: %v", err)
	}
	cfg := daemon.Config{}
	if err := loadConfig(cmd, &cfg); err != nil {
		test.Fatalf("load config failed: %v", err)
	}
	if cfg.JWTSigningKey != "from-env" || cfg.DataDir != "/srv/rp" || cfg.RequestTimeout != 2*time.Second {
		test.Fatalf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AdminRoles, []string{"staff", "owner"}) {
		test.Fatalf("unexpected admin roles %v", cfg.AdminRoles)
	}
}

func TestLoadConfigRequiresSigningKey(test *testing.T) {
	test.Setenv("RPLEDGER_JWT_SIGNING_KEY", "")
	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"--data-dir", "/srv/rp"}); err != nil {
		test.Fatalf("parse flags failed: %v", err)
	}
	if err := loadConfig(cmd, &daemon.Config{}); err == nil {
		test.Fatalf("expected missing signing key error")
	}
}
