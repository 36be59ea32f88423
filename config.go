package threadposter

import "time"

const (
	DefaultXAPIURL        = "https://api.twitter.com"
	DefaultLinkedInAPIURL = "https://api.linkedin.com"

	tweetsPath     = "/2/tweets"
	usersMePath    = "/2/users/me"
	ugcPostsPath   = "/v2/ugcPosts"
	userInfoPath   = "/v2/userinfo"
	tweetPermalink = "https://twitter.com/i/web/status/"

	// DefaultPacing is the pause between two posts of a thread.
	DefaultPacing = 2 * time.Second

	characterCountsTerminator = "===== CHARACTER COUNTS ====="
)

// Platform names used in logs, history and posted records.
const (
	PlatformX        = "x"
	PlatformLinkedIn = "linkedin"
)
