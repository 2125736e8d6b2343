package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*sqlite.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlite.NewStoreFromDB(db), mock
}

func TestMockUniqueViolationMapsToAlreadyExists(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO sponsor_hearts").
		WithArgs("sp1", "m1", sqlmock.AnyArg()).
		WillReturnError(errors.New("UNIQUE constraint failed: sponsor_hearts.sponsor_id, sponsor_hearts.member_id"))

	err := s.Sponsors().AddHeart(context.Background(), domain.SponsorHeart{SponsorID: "sp1", MemberID: "m1", CreatedAt: time.Now()})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestMockNoRowsMapsToNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM admins WHERE username").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Admins().GetAdminByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMockConditionalWriteMissIsConflict(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE applications").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Applications().RejectApplication(context.Background(), "app1", time.Now())
	require.ErrorIs(t, err, store.ErrConflict)
}

func TestMockWithTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM applications").
		WithArgs("sam@example.com", "sam@example.com").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM members").
		WithArgs("m1").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		if _, err := tx.Applications().DeleteApplicationsForEmail(context.Background(), "sam@example.com"); err != nil {
			return err
		}
		return tx.Members().DeleteMember(context.Background(), "m1")
	})
	require.EqualError(t, err, "disk I/O error")
}

func TestMockWithTxCommits(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE posts SET comment_count = comment_count \\+ 1").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		return tx.Forum().IncrementCommentCount(context.Background(), "p1")
	})
	require.NoError(t, err)
}
