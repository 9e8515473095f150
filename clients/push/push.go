// Package push sends notifications through the configured push gateway.
package push

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/context"
)

type Message struct {
	UserID string            `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

type pushError struct {
	ErrorType    string `json:"error"`
	ErrorMessage string `json:"error_description"`
}

func (e pushError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorType, e.ErrorMessage)
}

type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		http:     resty.New(),
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	responseError := &pushError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.apiKey)).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		SetError(&responseError).
		Post(c.endpoint + "/v1/send")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("error sending push message: %s", responseError.Error())
	}
	return nil
}
