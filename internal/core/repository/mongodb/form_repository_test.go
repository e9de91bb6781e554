package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/duynhne/form-service/internal/core/domain"
)

var validInput = domain.FormInput{
	Username:    "a",
	Email:       "a@x.com",
	Description: "d",
	Phone:       "1",
	City:        "c",
}

func storedDoc(id primitive.ObjectID, city string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: "a"},
		{Key: "email", Value: "a@x.com"},
		{Key: "description", Value: "d"},
		{Key: "phone", Value: "1"},
		{Key: "city", Value: city},
	}
}

func TestFormRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns object id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewFormRepository(mt.Coll)

		form, err := repo.Create(ctx, validInput)
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(form.ID))
		assert.Equal(mt, "c", form.City)
	})

	mt.Run("create store error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))
		repo := NewFormRepository(mt.Coll)

		_, err := repo.Create(ctx, validInput)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "insert form")
	})

	mt.Run("list returns documents in order", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			storedDoc(first, "c1"), storedDoc(second, "c2")))
		repo := NewFormRepository(mt.Coll)

		forms, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, forms, 2)
		assert.Equal(mt, first.Hex(), forms[0].ID)
		assert.Equal(mt, "c1", forms[0].City)
		assert.Equal(mt, second.Hex(), forms[1].ID)
	})

	mt.Run("list empty collection", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewFormRepository(mt.Coll)

		forms, err := repo.List(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, forms)
		assert.Empty(mt, forms)
	})

	mt.Run("update returns document after write", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: storedDoc(id, "c2")},
		))
		repo := NewFormRepository(mt.Coll)

		in := validInput
		in.City = "c2"
		form, err := repo.Update(ctx, id.Hex(), in)
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), form.ID)
		assert.Equal(mt, "c2", form.City)
	})

	mt.Run("update missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewFormRepository(mt.Coll)

		_, err := repo.Update(ctx, primitive.NewObjectID().Hex(), validInput)
		assert.ErrorIs(mt, err, domain.ErrFormNotFound)
	})

	mt.Run("update malformed id", func(mt *mtest.T) {
		repo := NewFormRepository(mt.Coll)

		_, err := repo.Update(ctx, "not-an-object-id", validInput)
		assert.ErrorIs(mt, err, domain.ErrFormNotFound)
	})

	mt.Run("delete existing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewFormRepository(mt.Coll)

		require.NoError(mt, repo.Delete(ctx, primitive.NewObjectID().Hex()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewFormRepository(mt.Coll)

		err := repo.Delete(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrFormNotFound)
	})

	mt.Run("delete malformed id", func(mt *mtest.T) {
		repo := NewFormRepository(mt.Coll)

		assert.ErrorIs(mt, repo.Delete(ctx, "42"), domain.ErrFormNotFound)
	})

	mt.Run("ping", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewFormRepository(mt.Coll)

		assert.NoError(mt, repo.Ping(ctx))
	})
}
