package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PostID       string             `bson:"postId" json:"postId"`
	UserID       string             `bson:"userId" json:"userId"`
	AuthorName   string             `bson:"authorName" json:"authorName"`
	Title        string             `bson:"title" json:"title"`
	Content      string             `bson:"content" json:"content"`
	Images       []string           `bson:"images" json:"images"`
	PostType     string             `bson:"postType" json:"postType"` // blog, farmUpdate, news
	LikeUsers    []string           `bson:"likeUsers" json:"likeUsers"`
	LikeCount    int                `bson:"likeCount" json:"likeCount"`
	CommentCount int                `bson:"commentCount" json:"commentCount"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    int64              `bson:"updatedAt" json:"updatedAt"`

	ShareToken       string `bson:"shareToken,omitempty" json:"-"`
	ShareTokenExpiry int64  `bson:"shareTokenExpiry,omitempty" json:"-"`
}
