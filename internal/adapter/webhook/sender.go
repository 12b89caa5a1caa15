package webhook

import (
	"context"
	"fmt"
	"time"

	"agentbridge/internal/app/notify"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const defaultDialTimeout = 2 * time.Second

// Sender posts webhook bodies with the hertz HTTP client.
type Sender struct {
	client *client.Client
}

func NewSender(dialTimeout time.Duration) (*Sender, error) {
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	c, err := client.NewClient(client.WithDialTimeout(dialTimeout))
	if err != nil {
		return nil, fmt.Errorf("new webhook client: %w", err)
	}
	return &Sender{client: c}, nil
}

func (s *Sender) Post(ctx context.Context, r notify.Request, timeout time.Duration) (int, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetRequestURI(r.URL)
	req.SetMethod(consts.MethodPost)
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	req.SetBody(r.Body)

	if err := s.client.DoTimeout(ctx, req, resp, timeout); err != nil {
		return 0, fmt.Errorf("post webhook: %w", err)
	}
	return resp.StatusCode(), nil
}
