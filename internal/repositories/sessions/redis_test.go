package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/repositories/characters"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mock redismock.ClientMock
	repo Repository
	now  time.Time
}

func (s *RedisRepoTestSuite) SetupTest() {
	client, mock := redismock.NewClientMock()
	s.mock = mock
	s.repo = NewRedis(client)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) encoded(session *entities.CreationSession) string {
	value, err := encode(session)
	s.Require().NoError(err)
	return value
}

func (s *RedisRepoTestSuite) TestUpsert() {
	ctx := context.Background()
	session := entities.NewCreationSession("user-1", "name", s.now)

	s.mock.ExpectSet("creation_session:user-1", s.encoded(session), 0).SetVal("OK")
	s.NoError(s.repo.Upsert(ctx, session))

	s.mock.ExpectSet("creation_session:user-1", s.encoded(session), 0).SetErr(errors.New("redis down"))
	s.Error(s.repo.Upsert(ctx, session))

	s.True(apperr.IsInvalidArgument(s.repo.Upsert(ctx, nil)))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	session := entities.NewCreationSession("user-1", "age", s.now)
	session.Advance(entities.CharacterDraft{"name": "Aria"}, 1, "age", s.now)

	s.mock.ExpectGet("creation_session:user-1").SetVal(s.encoded(session))

	got, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("age", got.CurrentFieldKey)
	s.Equal(1, got.StepIndex)
	s.Equal("Aria", got.Draft["name"])
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectGet("creation_session:user-1").RedisNil()

	_, err := s.repo.Get(context.Background(), "user-1")
	s.True(apperr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGet_CorruptValue() {
	s.mock.ExpectGet("creation_session:user-1").SetVal("{not json")

	_, err := s.repo.Get(context.Background(), "user-1")
	s.Error(err)
	s.False(apperr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestDelete() {
	s.mock.ExpectDel("creation_session:user-1").SetVal(0)

	s.NoError(s.repo.Delete(context.Background(), "user-1"))
}

func (s *RedisRepoTestSuite) TestFinalize() {
	ctx := context.Background()
	session := entities.NewCreationSession("user-1", "", s.now)
	session.Advance(entities.CharacterDraft{"name": "Aria"}, 20, "", s.now)
	character := entities.NewFinishedCharacter("c1", "user-1", session.Draft, s.now)

	charJSON, err := json.Marshal(characters.Data{
		ID:        "c1",
		OwnerID:   "user-1",
		Name:      "Aria",
		Draft:     map[string]string{"name": "Aria"},
		CreatedAt: s.now,
	})
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("creation_session:user-1", s.encoded(session), 0).SetVal("OK")
	s.mock.ExpectSet("finished_character:c1", string(charJSON), 0).SetVal("OK")
	s.mock.ExpectSAdd("owner:user-1:finished_characters", "c1").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Finalize(ctx, session, character))
}
