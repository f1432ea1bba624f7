package model

// OwnerProjection 反范式连接后归属者的精简投影，只有这三个字段，密码等永远不会被查出来
type OwnerProjection struct {
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

// 下面几个是列表查询的结果行：实体本身 + 归属者投影

type VideoRow struct {
	Video
	OwnerProjection
}

type CommentRow struct {
	Comment
	OwnerProjection
}

type TweetRow struct {
	Tweet
	OwnerProjection
}

// SubscriptionRow 订阅行，投影的是“另一端”的用户：查粉丝时是订阅者，查关注的频道时是频道主
type SubscriptionRow struct {
	Subscription
	OwnerProjection
}
