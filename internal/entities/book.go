package entities

import "go.mongodb.org/mongo-driver/bson/primitive"

// Book is a single owned book. The *Raw fields are search shadow copies of
// their source fields (uppercased, accents stripped, spaces removed) and are
// maintained on every write that touches the source field. They exist only
// for substring matching and are never returned to clients.
//
// A book is on loan iff BorrowedTo is non-empty.
type Book struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Author string             `bson:"author" json:"author"`
	Series string             `bson:"series,omitempty" json:"series,omitempty"`

	TitleRaw  string `bson:"titleRaw" json:"-"`
	AuthorRaw string `bson:"authorRaw" json:"-"`
	SeriesRaw string `bson:"seriesRaw,omitempty" json:"-"`

	OwnerID primitive.ObjectID `bson:"owner" json:"-"`
	// Owner is populated from the users collection on read paths.
	Owner *User `bson:"-" json:"owner,omitempty"`

	BorrowedTo string `bson:"borrowedTo,omitempty" json:"borrowedTo,omitempty"`
}

// OnLoan reports whether the book is currently lent out.
func (b Book) OnLoan() bool {
	return b.BorrowedTo != ""
}
