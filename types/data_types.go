package types

type Error struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// CreateTweetRequest is the body of POST /2/tweets.
type CreateTweetRequest struct {
	Text  string      `json:"text"`
	Reply *TweetReply `json:"reply,omitempty"`
}

type TweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

// CreateTweetResponse is the 201 body of POST /2/tweets.
type CreateTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Errors []Error `json:"errors,omitempty"`
}

// UserMe is the body of GET /2/users/me.
type UserMe struct {
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
	Errors []Error `json:"errors,omitempty"`
}

// UGCPost is the body of POST /v2/ugcPosts.
type UGCPost struct {
	Author          string             `json:"author"`
	LifecycleState  string             `json:"lifecycleState"`
	SpecificContent UGCSpecificContent `json:"specificContent"`
	Visibility      UGCVisibility      `json:"visibility"`
}

type UGCSpecificContent struct {
	ShareContent UGCShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type UGCShareContent struct {
	ShareCommentary    UGCText `json:"shareCommentary"`
	ShareMediaCategory string  `json:"shareMediaCategory"`
}

type UGCText struct {
	Text string `json:"text"`
}

type UGCVisibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

// UGCPostResponse carries the created share URN, e.g. urn:li:share:123.
type UGCPostResponse struct {
	ID string `json:"id"`
}

// UserInfo is the OpenID userinfo body returned by LinkedIn.
type UserInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
