package fit

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fitedit/internal/adapters/driven/auth"
	"github.com/custodia-labs/fitedit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/services"
)

// recordingService accepts every upload and keeps the bodies.
type recordingService struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func (s *recordingService) Authenticate(_ context.Context, creds domain.Credentials) (*domain.Session, error) {
	return &domain.Session{Username: creds.Username, AccessToken: "token", TokenType: "Bearer"}, nil
}

func (s *recordingService) Renew(_ context.Context, session *domain.Session) (*domain.Session, error) {
	return session, nil
}

func (s *recordingService) Upload(_ context.Context, _ *domain.Session, name string, body io.Reader) (*domain.UploadAck, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[name] = data
	return &domain.UploadAck{ActivityID: "1"}, nil
}

func newPipeline(t *testing.T) (*services.UploadOrchestrator, *recordingService, *memory.LedgerStore) {
	t.Helper()
	svc := &recordingService{uploads: make(map[string][]byte)}
	ledgers := memory.NewLedgerStore()
	creds := auth.NewStaticProvider(domain.Credentials{Username: "rider", Password: "secret"})

	orch := services.NewUploadOrchestrator(services.OrchestratorDeps{
		Codec:    NewCodec(),
		Ledgers:  ledgers,
		Service:  svc,
		Sessions: services.NewSessionManager(svc, creds, nil),
		Rewriter: services.NewMessageRewriter(services.NewAttributionRuleSet(domain.DefaultDeviceProfile()), nil),
		TempDir:  t.TempDir(),
	})
	return orch, svc, ledgers
}

func TestPipeline_UploadDirectory(t *testing.T) {
	dir := t.TempDir()
	original := activityFile()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.fit"), original, 0o644))
	orch, svc, ledgers := newPipeline(t)

	report, err := orch.ProcessDirectory(context.Background(), dir, domain.ModeEditAndUpload, false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	assert.Zero(t, report.Failed)

	paths, ok := ledgers.Paths(dir)
	require.True(t, ok)
	assert.Equal(t, []string{"a.fit"}, paths)

	uploaded, ok := svc.uploads["a.fit"]
	require.True(t, ok)
	msgs, err := NewCodec().Decode(uploaded)
	require.NoError(t, err)
	require.Len(t, msgs, 6)

	fid := msgs[0].(*domain.FileIdentity)
	assert.Equal(t, domain.ManufacturerGarmin, fid.Manufacturer)
	assert.Equal(t, domain.GarminProductEdge830, fid.Product)
	assert.True(t, created.Equal(fid.TimeCreated))

	for _, m := range msgs[1:3] {
		dev := m.(*domain.DeviceInfo)
		assert.Equal(t, domain.ManufacturerGarmin, dev.Manufacturer)
		assert.Equal(t, domain.GarminProductEdge830, dev.GarminProduct)
	}

	// The source file is left untouched.
	onDisk, err := os.ReadFile(filepath.Join(dir, "a.fit"))
	require.NoError(t, err)
	assert.Equal(t, original, onDisk)

	// A second run finds nothing new.
	again, err := orch.ProcessDirectory(context.Background(), dir, domain.ModeEditAndUpload, false)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Known)
	assert.Zero(t, again.Uploaded)
	assert.Len(t, svc.uploads, 1)
}

func TestPipeline_EditIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.fit")
	require.NoError(t, os.WriteFile(src, activityFile(), 0o644))
	orch, _, _ := newPipeline(t)

	first, err := orch.EditFile(context.Background(), src, "", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_modified.fit"), first.Output)
	assert.Equal(t, 3, first.Changed)

	second, err := orch.EditFile(context.Background(), first.Output, filepath.Join(dir, "twice.fit"), false)
	require.NoError(t, err)
	assert.Zero(t, second.Changed)

	once, err := os.ReadFile(first.Output)
	require.NoError(t, err)
	twice, err := os.ReadFile(second.Output)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}
