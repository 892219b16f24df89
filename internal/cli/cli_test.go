package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/see-platform/seesync/internal/archive"
	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/seeweb"
	"github.com/see-platform/seesync/internal/seeweb/seewebtest"
)

const pkgsDir = "testdata/pkgs"

// run executes the root command with fresh flags and settings.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SEE_USER", "")
	t.Setenv("SEE_PWD", "")
	viper.Reset()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := execute(context.Background(), args)
	if testing.Verbose() && errOut.Len() > 0 {
		t.Log(errOut.String())
	}
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func newServer(t *testing.T) *seewebtest.Server {
	t.Helper()
	srv := seewebtest.New()
	srv.Password = "secret"
	t.Cleanup(srv.Close)
	return srv
}

func remote(srv *seewebtest.Server, args ...string) []string {
	return append(args, "--see-root", srv.URL, "--user", "alice", "--password", "secret")
}

func TestSyncRegistersThenSkips(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, remote(srv, "sync", pkgsDir)...)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !strings.Contains(out, "Synced 2 package(s): 6 registered, 0 already present") {
		t.Errorf("unexpected output: %q", out)
	}

	for _, id := range []string{"a1b2c3d4e5f6", "d0d0d0", "c0ffee"} {
		if _, ok := srv.Def(id); !ok {
			t.Errorf("%s not registered", id)
		}
	}
	plus, _ := srv.Def("a1b2c3d4e5f6")
	if plus.Name() != "openalea.math: plus" {
		t.Errorf("node name = %q", plus.Name())
	}

	out, err = run(t, remote(srv, "sync", pkgsDir)...)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if !strings.Contains(out, "0 registered, 6 already present") {
		t.Errorf("second sync output: %q", out)
	}
}

func TestSyncOverwrite(t *testing.T) {
	srv := newServer(t)
	if _, err := run(t, remote(srv, "sync", pkgsDir)...); err != nil {
		t.Fatalf("sync: %v", err)
	}
	before := len(srv.CallsTo(seeweb.PathRegister))

	out, err := run(t, remote(srv, "sync", "--overwrite", pkgsDir)...)
	if err != nil {
		t.Fatalf("sync --overwrite: %v", err)
	}
	if !strings.Contains(out, "6 registered, 0 already present") {
		t.Errorf("overwrite output: %q", out)
	}

	removes := srv.CallsTo(seeweb.PathRemove)
	if len(removes) != 6 {
		t.Fatalf("removes = %d, want one per RO", len(removes))
	}
	seen := make(map[string]bool)
	for _, c := range removes {
		uid := c.Form.Get("uid")
		if seen[uid] {
			t.Errorf("%s removed twice", uid)
		}
		seen[uid] = true
		if c.Form.Get("recursive") != "false" {
			t.Errorf("%s removed recursively", uid)
		}
	}
	if got := len(srv.CallsTo(seeweb.PathRegister)) - before; got != 6 {
		t.Errorf("registrations during overwrite = %d, want 6", got)
	}
	if _, ok := srv.Def("c0ffee"); !ok {
		t.Error("workflow missing after overwrite")
	}
}

func TestSyncNoWorkflows(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, remote(srv, "sync", "--no-workflows", pkgsDir)...)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !strings.Contains(out, "5 registered") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, ok := srv.Def("c0ffee"); ok {
		t.Error("workflow registered despite --no-workflows")
	}
}

func TestSyncBadPassword(t *testing.T) {
	srv := newServer(t)

	_, err := run(t, "sync", pkgsDir, "--see-root", srv.URL, "--user", "alice", "--password", "nope")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if srv.Len() != 0 {
		t.Errorf("%d objects registered after failed login", srv.Len())
	}
}

func TestSyncExclude(t *testing.T) {
	out, err := run(t, "list", pkgsDir, "--exclude", "math/**", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var entries []listEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if len(entries) != 1 || entries[0].Name != "openalea.core" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestList(t *testing.T) {
	out, err := run(t, "list", pkgsDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"NAME", "openalea.core", "openalea.math", "2.1.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertOfflineThenPack(t *testing.T) {
	srv := newServer(t)
	dir := filepath.Join(t.TempDir(), "wkf")

	out, err := run(t, "convert", "--offline", "--out", dir, pkgsDir)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "Wrote 6 record(s)") {
		t.Errorf("convert output: %q", out)
	}
	defs, err := archive.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(defs) != 6 {
		t.Errorf("read %d records, want 6", len(defs))
	}

	zipPath := filepath.Join(t.TempDir(), "bundle.zip")
	out, err = run(t, remote(srv, "pack", "--dry-run", "--zip", zipPath, dir)...)
	if err != nil {
		t.Fatalf("pack --dry-run: %v", err)
	}
	if !strings.Contains(out, "Packed 6 record(s) into "+zipPath) {
		t.Errorf("dry-run output: %q", out)
	}
	if _, err := os.Stat(zipPath); err != nil {
		t.Errorf("archive not kept: %v", err)
	}
	if len(srv.Uploads()) != 0 {
		t.Error("dry run uploaded the archive")
	}

	out, err = run(t, remote(srv, "pack", dir)...)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !strings.Contains(out, "Uploaded wkf.zip") {
		t.Errorf("pack output: %q", out)
	}
	if got := len(srv.Uploads()); got != 1 {
		t.Errorf("uploads = %d, want 1", got)
	}
}

func TestConvertTable(t *testing.T) {
	out, err := run(t, "convert", "--offline", "--no-workflows", pkgsDir)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "TYPE") || !strings.Contains(out, "openalea.math: plus") {
		t.Errorf("table output:\n%s", out)
	}
	if strings.Contains(out, "double_sum") {
		t.Error("workflow listed despite --no-workflows")
	}
}

func TestUploadProv(t *testing.T) {
	srv := newServer(t)
	if _, err := run(t, remote(srv, "sync", pkgsDir)...); err != nil {
		t.Fatalf("sync: %v", err)
	}

	out, err := run(t, remote(srv, "upload-prov", "--container", "prov-oc", "testdata/prov.wkf")...)
	if err != nil {
		t.Fatalf("upload-prov: %v", err)
	}
	if !strings.Contains(out, "Registered provenance p1") {
		t.Errorf("output: %q", out)
	}

	var consume, produce bool
	for _, l := range srv.Links() {
		switch {
		case l.Source == "p1" && l.Type == ro.LinkConsume && l.Target == "d0d0d0":
			consume = true
		case l.Source == "p1" && l.Type == ro.LinkProduce:
			produce = true
		}
	}
	if !consume || !produce {
		t.Errorf("links = %+v", srv.Links())
	}

	out, err = run(t, remote(srv, "upload-prov", "testdata/prov.wkf")...)
	if err != nil {
		t.Fatalf("second upload-prov: %v", err)
	}
	if !strings.Contains(out, "already registered") {
		t.Errorf("second output: %q", out)
	}
}

func TestSearchAndGet(t *testing.T) {
	srv := newServer(t)
	srv.Put(ro.Def{"id": "i1", "type": ro.TypeInterface, "name": "IFloat"})
	srv.Put(ro.Def{"id": "v1", "type": ro.TypeData, "name": "x", "value": 42})

	out, err := run(t, "search", "--see-root", srv.URL, "--type", ro.TypeInterface, "--name", "IFloat")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, `"i1"`) {
		t.Errorf("search output: %q", out)
	}

	out, err = run(t, "get", "--see-root", srv.URL, "i1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, `"name": "IFloat"`) {
		t.Errorf("get output: %q", out)
	}

	out, err = run(t, "get", "--see-root", srv.URL, "--value", "v1")
	if err != nil {
		t.Fatalf("get --value: %v", err)
	}
	if strings.TrimSpace(out) != "42" {
		t.Errorf("value output: %q", out)
	}

	if _, err := run(t, "search", "--see-root", srv.URL, "broken"); err == nil {
		t.Error("expected error for malformed query argument")
	}
}

func TestRemoveAndLinks(t *testing.T) {
	srv := newServer(t)
	srv.Put(ro.Def{"id": "a", "type": ro.TypeContainer, "name": "a"})
	srv.Put(ro.Def{"id": "b", "type": ro.TypeWorkflow, "name": "b"})

	if _, err := run(t, remote(srv, "connect", "a", "b")...); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if links := srv.Links(); len(links) != 1 || links[0].Type != ro.LinkContains {
		t.Fatalf("links = %+v", links)
	}
	if _, err := run(t, remote(srv, "disconnect", "a", "b")...); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if _, err := run(t, remote(srv, "remove", "b")...); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := srv.Def("b"); ok {
		t.Error("b still registered")
	}
	if _, err := run(t, remote(srv, "remove", "b")...); err == nil {
		t.Error("removing an unknown id should fail")
	}
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", pkgsDir)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if strings.Count(out, "[ OK ]") != 2 {
		t.Errorf("validate output:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "wralea.yaml")
	if err := os.WriteFile(bad, []byte("description: no name\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "validate", bad)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(out, "[FAIL]") {
		t.Errorf("validate output:\n%s", out)
	}
}

func TestRewriteUIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wralea.yaml")
	src := "name: pkg\nversion: \"1.0\"\nnodes:\n  - name: n\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "rewrite-uids", path); err != nil {
		t.Fatalf("rewrite-uids: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "uid: ") {
		t.Errorf("no uid written:\n%s", data)
	}
}

func TestDoctor(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, remote(srv, "doctor", "--check-catalog", "--check-manifests", pkgsDir)...)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	for _, want := range []string{"answers searches", "logged in as alice", "openalea.math"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}

	_, err = run(t, "doctor", "--check-catalog", "--see-root", srv.URL, "--user", "alice", "--password", "nope")
	if err == nil {
		t.Error("doctor should fail on rejected credentials")
	}
}

func TestMetricsFile(t *testing.T) {
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "seesync.prom")

	if _, err := run(t, remote(srv, "sync", "--metrics-file", path, pkgsDir)...); err != nil {
		t.Fatalf("sync: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, want := range []string{
		"seesync_http_requests_total",
		`seesync_registrations_total{outcome="registered",type="interface"} 3`,
		`seesync_links_total{link_type="contains"}`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q:\n%s", want, data)
		}
	}
}

func TestMetricsFileWrittenOnFailure(t *testing.T) {
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "seesync.prom")

	_, err := run(t, "sync", pkgsDir, "--metrics-file", path,
		"--see-root", srv.URL, "--user", "alice", "--password", "nope")
	if err == nil {
		t.Fatal("expected failure")
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		t.Fatalf("metrics file: %v", rerr)
	}
	if !strings.Contains(string(data), `endpoint="`+seeweb.PathLogin+`"`) {
		t.Errorf("login request not recorded:\n%s", data)
	}
}

func TestVersion(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "seesync version 1.2.3 (commit: abc123, built: 2026-01-01)\n" {
		t.Errorf("version output: %q", out)
	}

	out, err = run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version --short: %v", err)
	}
	if out != "1.2.3\n" {
		t.Errorf("short output: %q", out)
	}
}

func TestConfigSetGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SEE_USER", "")
	viper.Reset()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})

	if err := execute(context.Background(), []string{"config", "set", "user", "bob"}); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".seesync", "config.yaml")); err != nil {
		t.Fatalf("config file: %v", err)
	}

	viper.Reset()
	resetFlags(rootCmd)
	out.Reset()
	if err := execute(context.Background(), []string{"config", "get", "user"}); err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out.String()) != "bob" {
		t.Errorf("config get output: %q", out.String())
	}
}

func TestConfigList(t *testing.T) {
	out, err := run(t, "config", "list", "--user", "carol", "--password", "hunter2")
	if err != nil {
		t.Fatalf("config list: %v", err)
	}
	if !strings.Contains(out, "carol") || !strings.Contains(out, "********") {
		t.Errorf("config list output:\n%s", out)
	}
	if strings.Contains(out, "hunter2") {
		t.Error("password printed in clear")
	}
	if _, err := run(t, "config", "set", "colour", "blue"); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestRegisterData(t *testing.T) {
	srv := newServer(t)
	srv.Put(ro.Def{"id": "iint", "type": ro.TypeInterface, "name": "IInt"})
	srv.Put(ro.Def{"id": "box", "type": ro.TypeContainer, "name": "box"})

	path := filepath.Join(t.TempDir(), "count.wkf")
	if err := os.WriteFile(path, []byte(`{"name": "count", "value": 7}`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, remote(srv, "register-data", "--interface", "IInt", "--container", "box", path)...)
	if err != nil {
		t.Fatalf("register-data: %v", err)
	}
	id := strings.TrimSpace(strings.TrimPrefix(out, "Registered data "))
	def, ok := srv.Def(id)
	if !ok {
		t.Fatalf("data %q not stored (output %q)", id, out)
	}
	if def["interface"] != "iint" || def.Type() != ro.TypeData {
		t.Errorf("stored data = %v", def)
	}
	if links := srv.Links(); len(links) != 1 || links[0].Source != "box" || links[0].Target != id {
		t.Errorf("links = %+v", links)
	}

	if _, err := run(t, remote(srv, "register-data", "--interface", "IMissing", path)...); err == nil {
		t.Error("unknown interface accepted")
	}
}

func TestPackRejectsEmptyDir(t *testing.T) {
	_, err := run(t, "pack", "--dry-run", t.TempDir())
	if err == nil {
		t.Fatal("expected error for a directory without records")
	}
	if !errors.Is(err, ro.ErrValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}
