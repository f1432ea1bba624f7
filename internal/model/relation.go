package model

// TargetKind 关系指向的目标类型，点赞的三种目标加上订阅的频道
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
	TargetChannel TargetKind = "channel"
)

func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet, TargetChannel:
		return true
	}
	return false
}

// IsLike 除了频道，其它目标都存在likes表里
func (k TargetKind) IsLike() bool {
	return k.Valid() && k != TargetChannel
}

// Target 带标签的目标引用，一条点赞恰好指向一个目标
type Target struct {
	Kind TargetKind
	ID   uint64
}

// Like 用户对视频/评论/推文的点赞。(liked_by_id, target_kind, target_id)联合唯一，uniqueIndex利用的是MySQL数据库的查重能力
type Like struct {
	RelationBase
	LikedByID  uint64     `gorm:"not null;uniqueIndex:idx_like_target,priority:1"`
	TargetKind TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_target,priority:2;index:idx_like_kind_target,priority:1"`
	TargetID   uint64     `gorm:"not null;uniqueIndex:idx_like_target,priority:3;index:idx_like_kind_target,priority:2"`
}

func (Like) TableName() string {
	return "likes"
}

func (l Like) Target() Target {
	return Target{Kind: l.TargetKind, ID: l.TargetID}
}

// Subscription 订阅关系，两端都是用户。(subscriber_id, channel_id)联合唯一
type Subscription struct {
	RelationBase
	SubscriberID uint64 `gorm:"not null;uniqueIndex:idx_subscriber_channel,priority:1"`
	ChannelID    uint64 `gorm:"not null;uniqueIndex:idx_subscriber_channel,priority:2;index"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Relation 统一描述一条点赞或订阅：谁(Principal)指向了什么(Target)
type Relation struct {
	Principal uint64
	Target    Target
}
