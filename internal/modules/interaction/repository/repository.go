package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kunal592/MD-BlogApp/internal/entity"
)

// InteractionRepository stores the toggle edges. Inserts never fail on an
// existing pair: they report zero affected rows instead.
type InteractionRepository interface {
	WithTx(tx *gorm.DB) InteractionRepository

	InsertLike(ctx context.Context, userID, blogID uuid.UUID) (int64, error)
	DeleteLike(ctx context.Context, userID, blogID uuid.UUID) (int64, error)
	CountLikes(ctx context.Context, blogID uuid.UUID) (int64, error)
	HasLiked(ctx context.Context, userID, blogID uuid.UUID) (bool, error)

	InsertBookmark(ctx context.Context, userID, blogID uuid.UUID) (int64, error)
	DeleteBookmark(ctx context.Context, userID, blogID uuid.UUID) (int64, error)
	CountBookmarks(ctx context.Context, blogID uuid.UUID) (int64, error)
	HasBookmarked(ctx context.Context, userID, blogID uuid.UUID) (bool, error)

	InsertCommentLike(ctx context.Context, userID, commentID uuid.UUID) (int64, error)
	DeleteCommentLike(ctx context.Context, userID, commentID uuid.UUID) (int64, error)
	CountCommentLikes(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	InsertFollow(ctx context.Context, followerID, followingID uuid.UUID) (int64, error)
	DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) (int64, error)
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	Followers(ctx context.Context, userID uuid.UUID) ([]entity.User, error)
	Following(ctx context.Context, userID uuid.UUID) ([]entity.User, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)

	LikedBlogIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	BookmarkedBlogIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	TotalLikes(ctx context.Context) (int64, error)
	TotalBookmarks(ctx context.Context) (int64, error)
}

type interactionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) WithTx(tx *gorm.DB) InteractionRepository {
	return &interactionRepository{db: tx}
}

func (r *interactionRepository) insertEdge(ctx context.Context, row any) (int64, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	return res.RowsAffected, res.Error
}

func (r *interactionRepository) deleteEdge(ctx context.Context, model any, query string, args ...any) (int64, error) {
	res := r.db.WithContext(ctx).Where(query, args...).Delete(model)
	return res.RowsAffected, res.Error
}

func (r *interactionRepository) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *interactionRepository) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error
	return count, err
}

func (r *interactionRepository) InsertLike(ctx context.Context, userID, blogID uuid.UUID) (int64, error) {
	return r.insertEdge(ctx, &entity.Like{UserID: userID, BlogID: blogID})
}

func (r *interactionRepository) DeleteLike(ctx context.Context, userID, blogID uuid.UUID) (int64, error) {
	return r.deleteEdge(ctx, &entity.Like{}, "user_id = ? AND blog_id = ?", userID, blogID)
}

func (r *interactionRepository) CountLikes(ctx context.Context, blogID uuid.UUID) (int64, error) {
	return r.count(ctx, &entity.Like{}, "blog_id = ?", blogID)
}

func (r *interactionRepository) HasLiked(ctx context.Context, userID, blogID uuid.UUID) (bool, error) {
	return r.exists(ctx, &entity.Like{}, "user_id = ? AND blog_id = ?", userID, blogID)
}

func (r *interactionRepository) InsertBookmark(ctx context.Context, userID, blogID uuid.UUID) (int64, error) {
	return r.insertEdge(ctx, &entity.Bookmark{UserID: userID, BlogID: blogID})
}

func (r *interactionRepository) DeleteBookmark(ctx context.Context, userID, blogID uuid.UUID) (int64, error) {
	return r.deleteEdge(ctx, &entity.Bookmark{}, "user_id = ? AND blog_id = ?", userID, blogID)
}

func (r *interactionRepository) CountBookmarks(ctx context.Context, blogID uuid.UUID) (int64, error) {
	return r.count(ctx, &entity.Bookmark{}, "blog_id = ?", blogID)
}

func (r *interactionRepository) HasBookmarked(ctx context.Context, userID, blogID uuid.UUID) (bool, error) {
	return r.exists(ctx, &entity.Bookmark{}, "user_id = ? AND blog_id = ?", userID, blogID)
}

func (r *interactionRepository) InsertCommentLike(ctx context.Context, userID, commentID uuid.UUID) (int64, error) {
	return r.insertEdge(ctx, &entity.CommentLike{UserID: userID, CommentID: commentID})
}

func (r *interactionRepository) DeleteCommentLike(ctx context.Context, userID, commentID uuid.UUID) (int64, error) {
	return r.deleteEdge(ctx, &entity.CommentLike{}, "user_id = ? AND comment_id = ?", userID, commentID)
}

func (r *interactionRepository) CountCommentLikes(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CommentID uuid.UUID
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&entity.CommentLike{}).
		Select("comment_id, COUNT(*) AS total").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CommentID] = row.Total
	}
	return counts, nil
}

func (r *interactionRepository) InsertFollow(ctx context.Context, followerID, followingID uuid.UUID) (int64, error) {
	return r.insertEdge(ctx, &entity.Follow{FollowerID: followerID, FollowingID: followingID})
}

func (r *interactionRepository) DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) (int64, error) {
	return r.deleteEdge(ctx, &entity.Follow{}, "follower_id = ? AND following_id = ?", followerID, followingID)
}

func (r *interactionRepository) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return r.exists(ctx, &entity.Follow{}, "follower_id = ? AND following_id = ?", followerID, followingID)
}

func (r *interactionRepository) FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *interactionRepository) Followers(ctx context.Context, userID uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at desc").
		Find(&users).Error
	return users, err
}

func (r *interactionRepository) Following(ctx context.Context, userID uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at desc").
		Find(&users).Error
	return users, err
}

func (r *interactionRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, &entity.Follow{}, "following_id = ?", userID)
}

func (r *interactionRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, &entity.Follow{}, "follower_id = ?", userID)
}

func (r *interactionRepository) LikedBlogIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Like{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Pluck("blog_id", &ids).Error
	return ids, err
}

func (r *interactionRepository) BookmarkedBlogIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Bookmark{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Pluck("blog_id", &ids).Error
	return ids, err
}

func (r *interactionRepository) TotalLikes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Like{}).Count(&count).Error
	return count, err
}

func (r *interactionRepository) TotalBookmarks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Bookmark{}).Count(&count).Error
	return count, err
}
