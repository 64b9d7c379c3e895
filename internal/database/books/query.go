package books

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bookssvc "github.com/lucasnneto/book-api/internal/books"
)

// searchFilter translates a query into a Mongo filter. An owner restricts to
// an exact match; otherwise a non-empty folded filter is substring-matched
// against the shadow fields. No parameters means everything.
func searchFilter(q bookssvc.Query) bson.M {
	switch {
	case q.Owner != nil:
		return bson.M{"owner": *q.Owner}
	case q.Filter != "":
		// The filter is already folded; quote it so user input cannot
		// inject regex syntax.
		pattern := regexp.QuoteMeta(q.Filter)
		return bson.M{"$or": []bson.M{
			{"titleRaw": bson.M{"$regex": pattern}},
			{"authorRaw": bson.M{"$regex": pattern}},
			{"seriesRaw": bson.M{"$regex": pattern}},
		}}
	default:
		return bson.M{}
	}
}

// ownedFilter matches the listed books only while they belong to the owner.
func ownedFilter(ids []primitive.ObjectID, owner primitive.ObjectID) bson.M {
	return bson.M{
		"_id":   bson.M{"$in": ids},
		"owner": owner,
	}
}

// updateDocument builds the $set/$unset document for a patch. A non-nil
// empty value clears the field (and its shadow copy) instead of storing an
// empty string, keeping omitempty documents tidy.
func updateDocument(p bookssvc.Patch) bson.M {
	set := bson.M{}
	unset := bson.M{}

	assign := func(field string, value *string) {
		if value == nil {
			return
		}
		if *value == "" {
			unset[field] = ""
			return
		}
		set[field] = *value
	}

	assign("title", p.Title)
	assign("titleRaw", p.TitleRaw)
	assign("author", p.Author)
	assign("authorRaw", p.AuthorRaw)
	assign("series", p.Series)
	assign("seriesRaw", p.SeriesRaw)
	assign("borrowedTo", p.BorrowedTo)

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
