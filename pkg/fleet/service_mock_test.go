package fleet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store/mocks"
	"github.com/doodlesbykumbi/hostwatch/pkg/signature"
)

func TestEnroll_StoreFailureIsInternal(t *testing.T) {
	users := &mocks.UsersStore{}
	servers := &mocks.ServersStore{}
	svc := NewService(users, servers)

	users.On("FindUserByInstallToken", mock.Anything, "TOK123").Return(&store.User{ID: "u-1"}, nil)
	servers.On("UpsertServer", mock.Anything, mock.MatchedBy(func(rec store.ServerRecord) bool {
		return rec.ID == "server_web1_root_10.0.0.5" && rec.OwnerID == "u-1" && len(rec.SecretKey) == 43
	})).Return(errors.New("connection reset"))

	_, err := svc.Enroll(context.Background(), EnrollRequest{Hostname: "web1", Username: "root", IP: "10.0.0.5", InstallToken: "TOK123"})
	var ierr *InternalError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "upsert server", ierr.Op)

	users.AssertExpectations(t)
	servers.AssertExpectations(t)
}

func TestIngest_BadSignatureNeverWrites(t *testing.T) {
	servers := &mocks.ServersStore{}
	svc := NewService(&mocks.UsersStore{}, servers)

	servers.On("GetServer", mock.Anything, "server_a_b_c").Return(&store.ServerRecord{ID: "server_a_b_c", SecretKey: []byte("S")}, nil)

	err := svc.Ingest(context.Background(), "server_a_b_c", signature.Sign([]byte("T"), []byte(`{}`)), []byte(`{}`))
	var aerr *AuthError
	require.ErrorAs(t, err, &aerr)

	servers.AssertNotCalled(t, "RecordSnapshot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngest_StoreFailureAfterVerification(t *testing.T) {
	servers := &mocks.ServersStore{}
	svc := NewService(&mocks.UsersStore{}, servers)
	body := []byte(`{"ok":true}`)

	servers.On("GetServer", mock.Anything, "server_a_b_c").Return(&store.ServerRecord{ID: "server_a_b_c", SecretKey: []byte("S")}, nil)
	servers.On("RecordSnapshot", mock.Anything, "server_a_b_c", body, mock.Anything).Return(errors.New("timeout"))

	err := svc.Ingest(context.Background(), "server_a_b_c", signature.Sign([]byte("S"), body), body)
	var ierr *InternalError
	require.ErrorAs(t, err, &ierr)
	servers.AssertExpectations(t)
}

func TestListServers_DropsForeignRecords(t *testing.T) {
	servers := &mocks.ServersStore{}
	svc := NewService(&mocks.UsersStore{}, servers)

	servers.On("ListServersByOwner", mock.Anything, "u-1").Return([]store.ServerRecord{
		{ID: "server_a", OwnerID: "u-1", Hostname: "a"},
		{ID: "server_b", OwnerID: "u-2", Hostname: "b"},
	}, nil)

	got, err := svc.ListServers(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "server_a", got[0].ServerID)
}

func TestRotateToken_GeneratorFailure(t *testing.T) {
	users := &mocks.UsersStore{}
	svc := NewService(users, &mocks.ServersStore{})
	svc.newToken = func() (string, error) { return "", errors.New("entropy") }

	_, err := svc.RotateToken(context.Background(), "u-1")
	var ierr *InternalError
	require.ErrorAs(t, err, &ierr)
	users.AssertNotCalled(t, "ReplaceInstallToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestReasonEnums(t *testing.T) {
	assert.Equal(t, "bad_signature", AuthReasonBadSignature.String())
	r, err := ValidationReasonString("body_too_large")
	require.NoError(t, err)
	assert.Equal(t, ValidationReasonBodyTooLarge, r)

	data, err := AuthReasonInvalidToken.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"invalid_token"`, string(data))
}
