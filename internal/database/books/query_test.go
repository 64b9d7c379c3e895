package books

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bookssvc "github.com/lucasnneto/book-api/internal/books"
)

func TestSearchFilter(t *testing.T) {
	t.Run("owner takes precedence over filter", func(t *testing.T) {
		owner := primitive.NewObjectID()
		filter := searchFilter(bookssvc.Query{Owner: &owner, Filter: "ANEIS"})
		assert.Equal(t, bson.M{"owner": owner}, filter)
	})

	t.Run("filter matches all three shadow fields", func(t *testing.T) {
		filter := searchFilter(bookssvc.Query{Filter: "ANEIS"})
		assert.Equal(t, bson.M{"$or": []bson.M{
			{"titleRaw": bson.M{"$regex": "ANEIS"}},
			{"authorRaw": bson.M{"$regex": "ANEIS"}},
			{"seriesRaw": bson.M{"$regex": "ANEIS"}},
		}}, filter)
	})

	t.Run("regex metacharacters are quoted", func(t *testing.T) {
		filter := searchFilter(bookssvc.Query{Filter: "C++.*"})
		or := filter["$or"].([]bson.M)
		assert.Equal(t, bson.M{"$regex": `C\+\+\.\*`}, or[0]["titleRaw"])
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		assert.Equal(t, bson.M{}, searchFilter(bookssvc.Query{}))
	})
}

func TestOwnedFilter(t *testing.T) {
	owner := primitive.NewObjectID()
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	assert.Equal(t, bson.M{
		"_id":   bson.M{"$in": ids},
		"owner": owner,
	}, ownedFilter(ids, owner))
}

func TestUpdateDocument(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("sets source and shadow fields together", func(t *testing.T) {
		update := updateDocument(bookssvc.Patch{
			Title:    str("Crônicas"),
			TitleRaw: str("CRONICAS"),
		})
		assert.Equal(t, bson.M{"$set": bson.M{
			"title":    "Crônicas",
			"titleRaw": "CRONICAS",
		}}, update)
	})

	t.Run("empty values unset the field", func(t *testing.T) {
		update := updateDocument(bookssvc.Patch{BorrowedTo: str("")})
		assert.Equal(t, bson.M{"$unset": bson.M{"borrowedTo": ""}}, update)
	})

	t.Run("clearing the series clears its shadow field", func(t *testing.T) {
		update := updateDocument(bookssvc.Patch{Series: str(""), SeriesRaw: str("")})
		assert.Equal(t, bson.M{"$unset": bson.M{"series": "", "seriesRaw": ""}}, update)
	})

	t.Run("nil fields are untouched", func(t *testing.T) {
		update := updateDocument(bookssvc.Patch{BorrowedTo: str("Bob")})
		assert.Equal(t, bson.M{"$set": bson.M{"borrowedTo": "Bob"}}, update)
	})
}
