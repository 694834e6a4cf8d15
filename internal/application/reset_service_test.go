package application

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madinafit/fitness-backend/pkg/apperrors"
	"github.com/madinafit/fitness-backend/pkg/helpers"
	"github.com/madinafit/fitness-backend/pkg/mailer"
)

var codeRe = regexp.MustCompile(`\b(\d{6})\b`)

func newResetFixture(t *testing.T) (*ResetService, *fakeUserRepo, *fakeCodeStore, *fakePublisher) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	repo := newFakeUserRepo()
	codes := newFakeCodeStore()
	pub := &fakePublisher{}
	svc := NewResetService(repo, codes, pub, logger, 10*time.Minute)

	hash, err := helpers.HashPassword("Abc123!")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), userWith("a@x.com", "Ann", hash)))
	return svc, repo, codes, pub
}

func sentCode(t *testing.T, pub *fakePublisher) string {
	t.Helper()
	require.NotEmpty(t, pub.jobs)
	job, ok := pub.jobs[len(pub.jobs)-1].(mailer.EmailJob)
	require.True(t, ok)
	m := codeRe.FindStringSubmatch(job.Text)
	require.Len(t, m, 2, "mail text should carry a 6-digit code: %q", job.Text)
	return m[1]
}

func TestRequestCodeUnknownUser(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	err := svc.RequestCode(context.Background(), "nobody@x.com")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRequestCodeWithoutMailChannel(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	svc.Pub = nil
	err := svc.RequestCode(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnavailable, apperrors.KindOf(err))
}

func TestRequestThenResetConsumesCode(t *testing.T) {
	svc, repo, _, pub := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@x.com"))
	code := sentCode(t, pub)

	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", code, "New123!x"))

	u, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "New123!x"))

	// code is single-use
	err = svc.ResetPassword(ctx, "a@x.com", code, "Other12!")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSecondRequestInvalidatesFirstCode(t *testing.T) {
	svc, _, _, pub := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@x.com"))
	first := sentCode(t, pub)
	require.NoError(t, svc.RequestCode(ctx, "a@x.com"))
	second := sentCode(t, pub)

	if first != second {
		err := svc.ResetPassword(ctx, "a@x.com", first, "New123!x")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	}
	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", second, "New123!x"))
}

func TestExpiredCodeBehavesLikeMissing(t *testing.T) {
	svc, _, _, pub := newResetFixture(t)
	ctx := context.Background()

	svc.CodeTTL = -time.Second // already expired on arrival
	require.NoError(t, svc.RequestCode(ctx, "a@x.com"))
	code := sentCode(t, pub)

	err := svc.ResetPassword(ctx, "a@x.com", code, "New123!x")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "invalid code", apperrors.Message(err))
}

func TestResetPasswordValidatesNewPassword(t *testing.T) {
	svc, _, _, pub := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@x.com"))
	code := sentCode(t, pub)

	err := svc.ResetPassword(ctx, "a@x.com", code, "weak")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// failed validation must not consume the code
	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", code, "New123!x"))
}

func TestWrongCodeDoesNotReset(t *testing.T) {
	svc, repo, _, pub := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@x.com"))
	code := sentCode(t, pub)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	err := svc.ResetPassword(ctx, "a@x.com", wrong, "New123!x")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	u, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "Abc123!"))
}

func TestEnqueueFailureRollsBackCode(t *testing.T) {
	svc, _, codes, pub := newResetFixture(t)
	ctx := context.Background()

	pub.err = errors.New("broker down")
	err := svc.RequestCode(ctx, "a@x.com")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnavailable, apperrors.KindOf(err))
	assert.Empty(t, codes.codes, "stored code must be rolled back on enqueue failure")
}
