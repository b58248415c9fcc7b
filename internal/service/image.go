package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/platewise/souschef/config"
	"github.com/platewise/souschef/internal/types"
)

// ImageGenerationRequest represents a request to the images API
type ImageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

// ImageGenerationResponse represents the response from the images API
type ImageGenerationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url,omitempty"`
		B64JSON       string `json:"b64_json,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// NewImageGenerator probes the environment once at startup and returns the
// richest generator the deployment supports. With an images API key
// configured you get real renders; without one, text-only descriptions.
// The probe result is fixed for the process lifetime.
func NewImageGenerator(cfg *config.Config, llm TextGenerator, s3cfg *config.S3Config) ImageGenerator {
	if cfg.ImageAPIKey != "" {
		log.Printf("[ImageService] Image generation available, using accelerated mode")
		return &AcceleratedGenerator{
			apiKey:   cfg.ImageAPIKey,
			apiURL:   cfg.ImageAPIURL,
			llm:      llm,
			s3Config: s3cfg,
			fallback: &DescriptionOnlyGenerator{llm: llm},
			client: &http.Client{
				Timeout: 60 * time.Second,
			},
		}
	}
	log.Printf("[ImageService] No image API key configured, using text-only mode")
	return &DescriptionOnlyGenerator{llm: llm}
}

// AcceleratedGenerator renders step images through the images API, with an
// optional S3 upload for a stable URL. Any failure degrades to the
// text-only generator rather than surfacing an error; a missing picture
// should never block the cook.
type AcceleratedGenerator struct {
	apiKey   string
	apiURL   string
	llm      TextGenerator
	s3Config *config.S3Config
	fallback *DescriptionOnlyGenerator
	client   *http.Client
}

// GenerateStepImage builds a short visual prompt for the step, renders it
// and returns the image with its description. Falls back to a text-only
// result on any rendering failure.
func (g *AcceleratedGenerator) GenerateStepImage(ctx context.Context, recipeName, stepText string) (*types.StepImageResult, error) {
	prompt, err := g.buildStepPrompt(ctx, recipeName, stepText)
	if err != nil {
		log.Printf("[ImageService] Prompt generation failed, falling back to text-only: %v", err)
		return g.fallback.GenerateStepImage(ctx, recipeName, stepText)
	}
	log.Printf("[ImageService] Generating image for recipe '%s' with prompt: %s", recipeName, prompt)

	b64, err := g.generateImage(ctx, prompt)
	if err != nil {
		log.Printf("[ImageService] Image generation failed, falling back to text-only: %v", err)
		return g.fallback.GenerateStepImage(ctx, recipeName, stepText)
	}

	result := &types.StepImageResult{
		ImageBase64: b64,
		Description: prompt,
		Mode:        types.ModeGPU,
	}

	if g.s3Config != nil {
		url, err := g.uploadToS3(ctx, b64)
		if err != nil {
			log.Printf("[ImageService] Failed to upload to S3, returning inline image only: %v", err)
		} else {
			result.ImageURL = url
		}
	}

	return result, nil
}

// buildStepPrompt asks the model for a compact photographic prompt for the
// step. Capped to keep well under the image API prompt limits.
func (g *AcceleratedGenerator) buildStepPrompt(ctx context.Context, recipeName, stepText string) (string, error) {
	prompt, err := g.llm.Generate(ctx, imagePromptSystem, fmt.Sprintf(imagePromptTemplate, recipeName, stepText))
	if err != nil {
		return "", err
	}
	if len(prompt) > 900 {
		prompt = prompt[:900]
	}
	return prompt, nil
}

// generateImage performs a single images API call and returns the image as
// base64 PNG data.
func (g *AcceleratedGenerator) generateImage(ctx context.Context, prompt string) (string, error) {
	reqBody := ImageGenerationRequest{
		Model:          "dall-e-3",
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard", // Use standard quality to control costs
		ResponseFormat: "b64_json",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ImageService] API request failed with status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result ImageGenerationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Data) == 0 {
		return "", fmt.Errorf("no image data in API response")
	}
	if result.Data[0].B64JSON == "" {
		return "", fmt.Errorf("empty image payload in API response")
	}

	return result.Data[0].B64JSON, nil
}

// uploadToS3 stores the rendered image and returns its public URL.
func (g *AcceleratedGenerator) uploadToS3(ctx context.Context, b64 string) (string, error) {
	imageData, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}

	fileName := fmt.Sprintf("step-images/%s.png", uuid.New().String())

	_, err = g.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", g.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)

	return publicURL, nil
}

// DescriptionOnlyGenerator produces a textual visual guide when no image
// backend is available. It always returns a usable description, falling
// back to a static template when even the text model fails.
type DescriptionOnlyGenerator struct {
	llm TextGenerator
}

// GenerateStepImage describes how the step should look instead of
// rendering it. Never returns an error.
func (g *DescriptionOnlyGenerator) GenerateStepImage(ctx context.Context, recipeName, stepText string) (*types.StepImageResult, error) {
	desc, err := g.llm.Generate(ctx, describeStepSystem, fmt.Sprintf(describeStepTemplate, recipeName, stepText))
	if err != nil || desc == "" {
		log.Printf("[ImageService] Description generation failed, using static fallback: %v", err)
		desc = fmt.Sprintf("While preparing %s: %s", recipeName, stepText)
	}
	return &types.StepImageResult{
		Description: desc,
		Mode:        types.ModeTextOnly,
	}, nil
}
