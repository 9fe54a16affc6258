package unitofwork

import (
	"context"
	"errors"
	"testing"

	"physio-notes-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
)

type recordingUoW struct {
	calls    []string
	beginErr error
}

func (u *recordingUoW) Begin(ctx context.Context) error {
	u.calls = append(u.calls, "begin")
	return u.beginErr
}

func (u *recordingUoW) Commit() error {
	u.calls = append(u.calls, "commit")
	return nil
}

func (u *recordingUoW) Rollback() error {
	u.calls = append(u.calls, "rollback")
	return nil
}

func (u *recordingUoW) EncounterRepository() contract.EncounterRepository           { return nil }
func (u *recordingUoW) CustomTemplateRepository() contract.CustomTemplateRepository { return nil }

func TestInTransactionCommitsOnSuccess(t *testing.T) {
	uow := &recordingUoW{}
	err := InTransaction(context.Background(), uow, func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, []string{"begin", "commit"}, uow.calls)
}

func TestInTransactionRollsBackOnError(t *testing.T) {
	uow := &recordingUoW{}
	boom := errors.New("boom")
	err := InTransaction(context.Background(), uow, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"begin", "rollback"}, uow.calls)
}

func TestInTransactionRollsBackOnPanic(t *testing.T) {
	uow := &recordingUoW{}
	assert.Panics(t, func() {
		_ = InTransaction(context.Background(), uow, func() error { panic("boom") })
	})
	assert.Equal(t, []string{"begin", "rollback"}, uow.calls)
}

func TestInTransactionSkipsFnWhenBeginFails(t *testing.T) {
	uow := &recordingUoW{beginErr: errors.New("pool exhausted")}
	called := false
	err := InTransaction(context.Background(), uow, func() error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
