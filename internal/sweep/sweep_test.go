package sweep

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmchantrein/anklume/internal/managed"
	"github.com/jmchantrein/anklume/internal/model"
	"github.com/jmchantrein/anklume/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func twoDomainModel() *model.InfraModel {
	return &model.InfraModel{
		ProjectName: "demo",
		Global:      &model.GlobalConfig{AddressingBase: "10.100"},
		Domains: map[string]*model.Domain{
			"admin": {
				SubnetID: intp(0),
				Machines: map[string]*model.Machine{
					"admin-ctrl": {Type: "lxc", IP: "10.100.0.10"},
				},
			},
			"work": {
				SubnetID:  intp(1),
				Ephemeral: true,
				Machines: map[string]*model.Machine{
					"dev-ws": {Type: "lxc", IP: "10.100.1.10"},
				},
			},
		},
	}
}

func TestDetectOrphansAfterDomainRemoval(t *testing.T) {
	root := t.TempDir()
	m := twoDomainModel()

	_, err := render.Render(m, root, false)
	require.NoError(t, err)

	delete(m.Domains, "work")
	orphans, err := DetectOrphans(m, root)
	require.NoError(t, err)

	var paths []string
	for _, o := range orphans {
		paths = append(paths, o.Path)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join("inventory", "work.yml"),
		filepath.Join("group_vars", "work.yml"),
		filepath.Join("host_vars", "dev-ws.yml"),
	}, paths)

	for _, p := range paths {
		assert.NotContains(t, p, "admin", "surviving domain artifacts are never orphans")
	}
}

func TestDetectOrphansCleanTree(t *testing.T) {
	root := t.TempDir()
	m := twoDomainModel()

	_, err := render.Render(m, root, false)
	require.NoError(t, err)

	orphans, err := DetectOrphans(m, root)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func writeOrphan(t *testing.T, root, rel, managedBody string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := "---\n" + managed.BeginMarker + "\n" + managedBody + managed.EndMarker + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestProtectionPolicy(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		raw       string // overrides body with marker-less content when set
		protected bool
	}{
		{name: "domain_ephemeral false", body: "domain_ephemeral: false\n", protected: true},
		{name: "domain_ephemeral true", body: "domain_ephemeral: true\n", protected: false},
		{name: "instance_ephemeral false", body: "instance_ephemeral: false\n", protected: true},
		{name: "instance_ephemeral true", body: "instance_ephemeral: true\n", protected: false},
		{name: "domain key wins over instance key", body: "domain_ephemeral: true\ninstance_ephemeral: false\n", protected: false},
		{name: "domain false wins", body: "domain_ephemeral: false\ninstance_ephemeral: true\n", protected: true},
		{name: "no ephemeral keys", body: "instance_name: x\n", protected: false},
		{name: "unparsable managed region", body: "\t{not yaml\n", protected: false},
		{name: "no managed markers", raw: "just some text\n", protected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			m := &model.InfraModel{
				ProjectName: "demo",
				Global:      &model.GlobalConfig{AddressingBase: "10.100"},
				Domains:     map[string]*model.Domain{},
			}

			rel := filepath.Join("host_vars", "ghost.yml")
			if tt.raw != "" {
				path := filepath.Join(root, rel)
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(tt.raw), 0o644))
			} else {
				writeOrphan(t, root, rel, tt.body)
			}

			orphans, err := DetectOrphans(m, root)
			require.NoError(t, err)
			require.Len(t, orphans, 1)
			assert.Equal(t, tt.protected, orphans[0].Protected)
		})
	}
}

func TestSweepDeletesUnprotectedOnly(t *testing.T) {
	root := t.TempDir()
	m := twoDomainModel()

	_, err := render.Render(m, root, false)
	require.NoError(t, err)

	// admin artifacts are non-ephemeral, so after removing the domain
	// from the model its group and host files are protected; the work
	// domain is ephemeral and sweeps away.
	delete(m.Domains, "admin")
	delete(m.Domains, "work")

	report, err := Sweep(m, root, true)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Kept, "non-ephemeral group and host artifacts are protected")
	assert.Equal(t, 4, report.Removed, "inventories and ephemeral artifacts are removed")

	_, err = os.Stat(filepath.Join(root, "group_vars", "admin.yml"))
	assert.NoError(t, err, "protected orphan stays in place")
	_, err = os.Stat(filepath.Join(root, "host_vars", "dev-ws.yml"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "inventory", "admin.yml"))
	assert.True(t, os.IsNotExist(err))
}

func TestSweepWithoutDeleteIsReadOnly(t *testing.T) {
	root := t.TempDir()
	m := twoDomainModel()

	_, err := render.Render(m, root, false)
	require.NoError(t, err)

	delete(m.Domains, "work")
	report, err := Sweep(m, root, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Removed)
	assert.Len(t, report.Orphans, 3)

	for _, o := range report.Orphans {
		_, err := os.Stat(filepath.Join(root, o.Path))
		assert.NoError(t, err, "read-only sweep must not delete %s", o.Path)
	}
}

func TestOperatorFilesOutsideManagedDirsIgnored(t *testing.T) {
	root := t.TempDir()
	m := twoDomainModel()

	_, err := render.Render(m, root, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "site.yml"), []byte("# playbook\n"), 0o644))

	orphans, err := DetectOrphans(m, root)
	require.NoError(t, err)
	for _, o := range orphans {
		assert.False(t, strings.HasPrefix(o.Path, "site.yml"))
	}
	assert.Empty(t, orphans)
}
