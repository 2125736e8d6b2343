package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store/drivers/sqlite"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/mailx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "clubhouse-service")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: t0} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "clubhouse.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fixture struct {
	store    *sqlite.Store
	clock    *clock
	mail     *mailx.LogMailer
	notifier *service.Notifier
	apps     *service.ApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: newStore(t),
		clock: newClock(),
		mail:  mailx.NewLogMailer(slogx.Discard()),
	}
	f.notifier = &service.Notifier{Mailer: f.mail, SiteURL: "https://club.example"}
	f.apps = &service.ApplicationService{
		Store:    f.store,
		Notifier: f.notifier,
		Policy:   service.RatePolicy{Limit: service.DefaultSponsorApprovalLimit, Window: service.DefaultSponsorApprovalWindow},
		Now:      f.clock.Now,
	}
	return f
}

func (f *fixture) member(t *testing.T, email, name string) domain.Member {
	t.Helper()

	m, err := f.store.Members().UpsertMember(context.Background(), domain.Member{
		ID:        idx.New().String(),
		Email:     email,
		Name:      name,
		Active:    true,
		CreatedAt: t0,
		UpdatedAt: t0,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) submit(t *testing.T, applicant, sponsor string) service.Submitted {
	t.Helper()

	sub, err := f.apps.Submit(context.Background(), service.ApplicationInput{
		Name:         "Ada Lovelace",
		Email:        applicant,
		SponsorEmail: sponsor,
		City:         "London",
		Employer:     "Analytical Engines",
		LinkedIn:     "https://linkedin.com/in/ada",
	})
	require.NoError(t, err)
	return sub
}
