package threadposter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/masa-finance/masa-thread-poster/auth"
	"github.com/masa-finance/masa-thread-poster/httpwrap"
	"github.com/masa-finance/masa-thread-poster/types"
)

// XClient creates posts through the X API v2.
type XClient struct {
	client  *httpwrap.Client
	baseURL string
}

// NewXClient uses client as is; its transport must already authenticate.
func NewXClient(client *httpwrap.Client, baseURL string) *XClient {
	if baseURL == "" {
		baseURL = DefaultXAPIURL
	}
	return &XClient{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewOAuth1XClient signs every request with the user's OAuth 1.0a tokens.
func NewOAuth1XClient(client *httpwrap.Client, baseURL string, creds auth.OAuth1Credentials) *XClient {
	return NewXClient(client.WithHTTPClient(creds.Client(client.HTTPClient())), baseURL)
}

// NewBearerXClient authenticates with an OAuth 2.0 user access token.
func NewBearerXClient(client *httpwrap.Client, baseURL, accessToken string) *XClient {
	return NewXClient(client.WithBearerToken(accessToken), baseURL)
}

func (x *XClient) CreatePost(ctx context.Context, text, inReplyToID string) (string, error) {
	req := types.CreateTweetRequest{Text: text}
	if inReplyToID != "" {
		req.Reply = &types.TweetReply{InReplyToTweetID: inReplyToID}
	}
	var resp types.CreateTweetResponse
	if _, err := x.client.Post(ctx, x.baseURL+tweetsPath, req, nil, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		if len(resp.Errors) > 0 {
			return "", fmt.Errorf("create post: %s", resp.Errors[0].Message)
		}
		return "", errors.New("create post: response has no id")
	}
	return resp.Data.ID, nil
}

// Me returns the account the credentials belong to.
func (x *XClient) Me(ctx context.Context) (*types.UserMe, error) {
	var me types.UserMe
	if _, err := x.client.Get(ctx, x.baseURL+usersMePath, nil, nil, &me); err != nil {
		return nil, err
	}
	if me.Data.ID == "" {
		if len(me.Errors) > 0 {
			return nil, fmt.Errorf("users/me: %s", me.Errors[0].Message)
		}
		return nil, errors.New("users/me: response has no user")
	}
	return &me, nil
}

// PostURL is the public permalink of an X post.
func PostURL(id string) string {
	return tweetPermalink + id
}
