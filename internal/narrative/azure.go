package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

// ChatCompleter is the slice of *azopenai.Client the Azure caller uses.
type ChatCompleter interface {
	GetChatCompletions(ctx context.Context, body azopenai.ChatCompletionsOptions, options *azopenai.GetChatCompletionsOptions) (azopenai.GetChatCompletionsResponse, error)
}

type AzureOpenAICaller struct {
	client       ChatCompleter
	deploymentID string
	maxTokens    int32
}

func NewAzureOpenAICaller(endpoint, apiKey, deploymentID string, maxTokens int) (*AzureOpenAICaller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	if strings.TrimSpace(endpoint) == "" || strings.TrimSpace(deploymentID) == "" {
		return nil, fmt.Errorf("%w: azure endpoint and deployment are required", ErrMissingCredential)
	}
	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Azure OpenAI client: %w", err)
	}
	return newAzureCaller(client, deploymentID, maxTokens), nil
}

func newAzureCaller(client ChatCompleter, deploymentID string, maxTokens int) *AzureOpenAICaller {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &AzureOpenAICaller{client: client, deploymentID: deploymentID, maxTokens: int32(maxTokens)}
}

func (c *AzureOpenAICaller) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.GetChatCompletions(
		ctx,
		azopenai.ChatCompletionsOptions{
			DeploymentName: to.Ptr(c.deploymentID),
			MaxTokens:      to.Ptr(c.maxTokens),
			Messages: []azopenai.ChatRequestMessageClassification{
				&azopenai.ChatRequestUserMessage{
					Content: azopenai.NewChatRequestUserMessageContent(systemPrompt + "\n\n" + prompt),
				},
			},
		},
		nil,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
		return *resp.Choices[0].Message.Content, nil
	}
	return "", errors.New("no completion received from model")
}
