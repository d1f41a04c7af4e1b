package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const googleVisionAPIURL = "https://vision.googleapis.com/v1/images:annotate"

// faceConfidenceFloor drops low-confidence detections (posters, reflections).
const faceConfidenceFloor = 0.6

type GoogleVisionClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewGoogleVisionClient(apiKey string) *GoogleVisionClient {
	return &GoogleVisionClient{
		apiKey:   apiKey,
		endpoint: googleVisionAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type googleVisionRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent  `json:"image"`
	Features []featureType `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type featureType struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type googleVisionResponse struct {
	Responses []annotateResponse `json:"responses"`
	Error     *googleError       `json:"error"`
}

type googleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type annotateResponse struct {
	FaceAnnotations []faceAnnotation `json:"faceAnnotations"`
	Error           *googleError     `json:"error"`
}

type faceAnnotation struct {
	DetectionConfidence float64 `json:"detectionConfidence"`
}

func (c *GoogleVisionClient) CountFaces(ctx context.Context, imageData []byte) (int, error) {
	reqBody := googleVisionRequest{
		Requests: []imageRequest{
			{
				Image: imageContent{
					Content: base64.StdEncoding.EncodeToString(imageData),
				},
				Features: []featureType{
					{Type: "FACE_DETECTION", MaxResults: 20},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var visionResp googleVisionResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if visionResp.Error != nil {
		return 0, fmt.Errorf("Google Vision API error: %s", visionResp.Error.Message)
	}
	if len(visionResp.Responses) == 0 {
		return 0, fmt.Errorf("no response from Google Vision API")
	}

	response := visionResp.Responses[0]
	if response.Error != nil {
		return 0, fmt.Errorf("Google Vision API error: %s", response.Error.Message)
	}

	count := 0
	for _, face := range response.FaceAnnotations {
		if face.DetectionConfidence >= faceConfidenceFloor {
			count++
		}
	}
	return count, nil
}
