package upload_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/seeweb"
	"github.com/see-platform/seesync/internal/upload"
)

func provDef() ro.Def {
	return ro.Def{
		"id":       "p1",
		"type":     ro.TypeProv,
		"name":     "run",
		"workflow": "wf",
		"executions": []any{map[string]any{
			"node": 0,
			"inputs": []any{
				map[string]any{"port": "a", "data": "d0"},
				map[string]any{"port": "b", "data": "d1"},
				map[string]any{"port": "c", "data": nil},
			},
			"outputs": []any{map[string]any{"port": "res", "data": "d2"}},
		}},
		"data": []any{
			map[string]any{"id": "d0", "type": "ref", "value": "in-ref"},
			map[string]any{"id": "d1", "type": "int", "value": 3},
			map[string]any{"id": "d2", "type": "int", "value": 5},
		},
	}
}

func TestProv_RegistersOutputsAndLinks(t *testing.T) {
	srv, u := setup(t)
	srv.Put(ro.Def{"id": "box", "type": ro.TypeContainer, "name": "prov-oc"})
	srv.Put(ro.Def{"id": "wf", "type": ro.TypeWorkflow})
	srv.Put(ro.Def{"id": "in-ref", "type": ro.TypeData})

	def := provDef()
	res, err := u.Prov(context.Background(), def, "box")
	require.NoError(t, err)
	assert.Equal(t, "p1", res.ID)

	var out string
	for _, l := range srv.Links() {
		if l.Type == ro.LinkProduce {
			out = l.Target
		}
	}
	require.NotEmpty(t, out)

	assert.Equal(t, []string{
		"register:ro:",
		"connect:contains:box>" + out,
		"register:workflow_prov:p1",
		"connect:consume:p1>in-ref",
		"connect:produce:p1>" + out,
		"connect:contains:box>p1",
	}, srv.Writes())

	data, ok := srv.Def(out)
	require.True(t, ok)
	assert.Equal(t, "run_0", data.Name())
	assert.Equal(t, 5.0, data["value"])

	stored, ok := srv.Def("p1")
	require.True(t, ok)
	entries := stored["data"].([]any)
	assert.Equal(t, map[string]any{"id": "d2", "type": "ref", "value": out}, entries[2])

	orig := def["data"].([]any)[2].(map[string]any)
	assert.Equal(t, "int", orig["type"], "caller's record was modified")
}

func TestProv_MissingWorkflow(t *testing.T) {
	srv, u := setup(t)
	_, err := u.Prov(context.Background(), provDef(), "")
	assert.ErrorIs(t, err, ro.ErrNotFound)
	assert.Empty(t, srv.Writes())
}

func TestProv_MissingInputRef(t *testing.T) {
	srv, u := setup(t)
	srv.Put(ro.Def{"id": "wf", "type": ro.TypeWorkflow})

	_, err := u.Prov(context.Background(), provDef(), "")
	assert.ErrorIs(t, err, ro.ErrNotFound)
	assert.Empty(t, srv.Writes())
}

func TestProv_UnknownDataID(t *testing.T) {
	srv, u := setup(t)
	srv.Put(ro.Def{"id": "wf", "type": ro.TypeWorkflow})
	srv.Put(ro.Def{"id": "in-ref", "type": ro.TypeData})

	def := provDef()
	def["data"] = def["data"].([]any)[:2]
	_, err := u.Prov(context.Background(), def, "")
	assert.ErrorIs(t, err, ro.ErrValidation)
	assert.Empty(t, srv.Writes())
}

func TestProv_ExistingIsSkipped(t *testing.T) {
	srv, u := setup(t)
	srv.Put(ro.Def{"id": "p1", "type": ro.TypeProv})

	res, err := u.Prov(context.Background(), provDef(), "")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, srv.CallsTo(seeweb.PathRegister))
}

func TestProv_OverwriteRemovesAfterChecks(t *testing.T) {
	srv, u := setup(t, upload.WithOverwrite(true))
	srv.Put(ro.Def{"id": "wf", "type": ro.TypeWorkflow})
	srv.Put(ro.Def{"id": "in-ref", "type": ro.TypeData})
	srv.Put(ro.Def{"id": "p1", "type": ro.TypeProv, "name": "old"})

	res, err := u.Prov(context.Background(), provDef(), "")
	require.NoError(t, err)
	assert.Equal(t, "p1", res.ID)
	assert.False(t, res.Skipped)

	writes := srv.Writes()
	require.NotEmpty(t, writes)
	assert.Equal(t, "remove:p1", writes[0])
	assert.Len(t, srv.CallsTo(seeweb.PathRemove), 1)
	assert.Equal(t, "register:ro:", writes[1])

	stored, ok := srv.Def("p1")
	require.True(t, ok)
	assert.Equal(t, "run", stored.Name())
}

func TestProv_OverwriteKeepsExistingWhenInputMissing(t *testing.T) {
	srv, u := setup(t, upload.WithOverwrite(true))
	srv.Put(ro.Def{"id": "wf", "type": ro.TypeWorkflow})
	srv.Put(ro.Def{"id": "p1", "type": ro.TypeProv})

	_, err := u.Prov(context.Background(), provDef(), "")
	assert.ErrorIs(t, err, ro.ErrNotFound)
	assert.Empty(t, srv.Writes())
	_, ok := srv.Def("p1")
	assert.True(t, ok, "existing provenance was removed")
}

func TestProv_FailOnExisting(t *testing.T) {
	srv, u := setup(t, upload.WithFailOnExisting(true))
	srv.Put(ro.Def{"id": "wf", "type": ro.TypeWorkflow})
	srv.Put(ro.Def{"id": "in-ref", "type": ro.TypeData})
	srv.Put(ro.Def{"id": "p1", "type": ro.TypeProv})

	_, err := u.Prov(context.Background(), provDef(), "")
	assert.ErrorIs(t, err, ro.ErrConflict)
	assert.Empty(t, srv.Writes())
}
