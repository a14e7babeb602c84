package storage

import (
	"net/url"

	"github.com/cloudinary/cloudinary-go/v2/api"
)

// CloudinarySigner signs direct-upload parameters so the admin UI can upload
// product images from the browser without the secret ever leaving the server.
type CloudinarySigner struct {
	apiSecret string
}

func NewCloudinarySigner(apiSecret string) *CloudinarySigner {
	return &CloudinarySigner{apiSecret: apiSecret}
}

func (s *CloudinarySigner) SignUploadParams(params map[string]string) (string, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return api.SignParameters(values, s.apiSecret)
}
