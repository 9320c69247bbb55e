package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	UserByExternalPrefix  = "user:ext:%s"
	PostKeyPrefix         = "post:%d"
	FollowingIDsKeyPrefix = "user:%d:following"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 30 * time.Minute
	FollowingTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UserByExternalKey(externalID string) string {
	return fmt.Sprintf(UserByExternalPrefix, externalID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func FollowingIDsKey(userID uint) string {
	return fmt.Sprintf(FollowingIDsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint, externalID string) {
	Invalidate(ctx, UserKey(userID), UserByExternalKey(externalID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateFollowing(ctx context.Context, userID uint) {
	Invalidate(ctx, FollowingIDsKey(userID))
}
