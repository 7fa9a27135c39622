package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Comment struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostID     string              `bson:"postId" json:"postId"`
	UserID     string              `bson:"userId" json:"userId"`
	AuthorName string              `bson:"authorName" json:"authorName"`
	Content    string              `bson:"content" json:"content"`
	ParentID   *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Likes      []string            `bson:"likes" json:"likes"`
	LikeCount  int                 `bson:"likeCount" json:"likeCount"`
	ReplyCount int                 `bson:"replyCount" json:"replyCount"`
	CreatedAt  int64               `bson:"createdAt" json:"createdAt"`
	UpdatedAt  int64               `bson:"updatedAt" json:"updatedAt"`
}
