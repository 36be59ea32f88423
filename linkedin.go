package threadposter

import (
	"context"
	"errors"
	"strings"

	"github.com/masa-finance/masa-thread-poster/httpwrap"
	"github.com/masa-finance/masa-thread-poster/types"
)

// ErrRepliesUnsupported is returned when a LinkedIn post is asked to reply.
var ErrRepliesUnsupported = errors.New("linkedin: replies are not supported")

// LinkedInClient shares public text posts on behalf of a member.
type LinkedInClient struct {
	client      *httpwrap.Client
	baseURL     string
	accessToken string
	personID    string
}

// NewLinkedInClient creates a client. When personID is empty it is looked up
// through the userinfo endpoint on first use.
func NewLinkedInClient(client *httpwrap.Client, baseURL, accessToken, personID string) *LinkedInClient {
	if baseURL == "" {
		baseURL = DefaultLinkedInAPIURL
	}
	return &LinkedInClient{
		client:      client,
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		personID:    personID,
	}
}

func (l *LinkedInClient) headers() httpwrap.Header {
	return httpwrap.NewHeader().WithBearerToken(l.accessToken).WithRestliProtocol()
}

// UserInfo returns the OpenID profile of the token owner.
func (l *LinkedInClient) UserInfo(ctx context.Context) (*types.UserInfo, error) {
	var info types.UserInfo
	if _, err := l.client.Get(ctx, l.baseURL+userInfoPath, nil, l.headers(), &info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, errors.New("linkedin userinfo: response has no subject")
	}
	return &info, nil
}

// PersonID returns the member id, resolving it once if needed.
func (l *LinkedInClient) PersonID(ctx context.Context) (string, error) {
	if l.personID != "" {
		return l.personID, nil
	}
	info, err := l.UserInfo(ctx)
	if err != nil {
		return "", err
	}
	l.personID = info.Sub
	return l.personID, nil
}

func (l *LinkedInClient) CreatePost(ctx context.Context, text, inReplyToID string) (string, error) {
	if inReplyToID != "" {
		return "", ErrRepliesUnsupported
	}
	personID, err := l.PersonID(ctx)
	if err != nil {
		return "", err
	}

	post := types.UGCPost{
		Author:         "urn:li:person:" + personID,
		LifecycleState: "PUBLISHED",
		SpecificContent: types.UGCSpecificContent{
			ShareContent: types.UGCShareContent{
				ShareCommentary:    types.UGCText{Text: text},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: types.UGCVisibility{MemberNetworkVisibility: "PUBLIC"},
	}
	var resp types.UGCPostResponse
	if _, err := l.client.Post(ctx, l.baseURL+ugcPostsPath, post, l.headers(), &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("linkedin: response has no id")
	}
	// urn:li:share:123 -> 123
	return resp.ID[strings.LastIndex(resp.ID, ":")+1:], nil
}
