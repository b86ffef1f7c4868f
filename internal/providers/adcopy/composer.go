package adcopy

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CopyInput is everything the composer needs to write the main ad line.
// History carries prior interactions for the same user, newest first.
type CopyInput struct {
	ItemName       string
	ItemConcept    string
	ItemCategory   string
	AddInformation string
	History        string
}

// Composer produces banner copy. AdText writes the main line; ServeText
// writes the supporting line that advertises a given main line.
type Composer interface {
	AdText(ctx context.Context, in CopyInput) (string, error)
	ServeText(ctx context.Context, adText, history string) (string, error)
}

const systemPrompt = "당신은 창의적인 카피라이터입니다. 각 요청에 대해 일관된 광고 문구를 생성하세요."

// ChatComposer generates copy through the chat-completion client.
type ChatComposer struct {
	client *Client
}

func NewChatComposer(client *Client) *ChatComposer {
	return &ChatComposer{client: client}
}

func (c *ChatComposer) AdText(ctx context.Context, in CopyInput) (string, error) {
	user := fmt.Sprintf(
		"다음 정보를 바탕으로 '%s' 제품의 광고 문구를 생성해 주세요: 컨셉 - '%s', 카테고리 - '%s', 추가 정보 - '%s'. 이전에 사용자와의 상호작용: %s",
		in.ItemName, in.ItemConcept, in.ItemCategory, in.AddInformation, in.History,
	)
	return c.client.Complete(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}, defaultMaxTokens)
}

func (c *ChatComposer) ServeText(ctx context.Context, adText, history string) (string, error) {
	user := fmt.Sprintf(
		"다음 메인 광고글을 광고하는 서브 광고글을 작성해 주세요: '%s'. 이전에 사용자와의 상호작용: %s",
		adText, history,
	)
	return c.client.Complete(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}, defaultMaxTokens)
}

var _ Composer = (*ChatComposer)(nil)

// StaticComposer writes deterministic copy without calling any API. It is
// used when no chat-completion key is configured, keeping development and
// test environments fully offline.
type StaticComposer struct{}

func NewStaticComposer() *StaticComposer {
	return &StaticComposer{}
}

func (s *StaticComposer) AdText(ctx context.Context, in CopyInput) (string, error) {
	titler := cases.Title(language.Und)
	name := in.ItemName
	if name == "" {
		name = "신제품"
	}
	concept := in.ItemConcept
	if concept == "" {
		concept = "프리미엄"
	}
	return fmt.Sprintf("%s, %s의 시작", titler.String(name), concept), nil
}

func (s *StaticComposer) ServeText(ctx context.Context, adText, history string) (string, error) {
	return fmt.Sprintf("지금 만나보세요: %s", Truncate(adText, 10)), nil
}

var _ Composer = (*StaticComposer)(nil)
