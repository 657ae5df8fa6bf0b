// Copyright 2025 CareerOS, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// ObjectStore uploads user files to the configured GCS bucket and hands
// back a direct object URL. It backs the file passthrough endpoint that
// lets clients stage a recording before submitting it for analysis.
type ObjectStore struct {
	client *storage.Client
	bucket string
}

func NewObjectStore(client *storage.Client, bucket string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket}
}

// Upload streams r into the bucket under a fresh UUID-prefixed object name
// and returns the object's public URL. The original file name survives as
// the suffix so downloads keep a sensible name.
func (s *ObjectStore) Upload(ctx context.Context, fileName, contentType string, r io.Reader) (string, error) {
	objectName := fmt.Sprintf("uploads/%s-%s", uuid.NewString(), path.Base(fileName))

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s to gs://%s: %w", objectName, s.bucket, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize gs://%s/%s: %w", s.bucket, objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName), nil
}

// StageFile copies a local file into the bucket and returns its gs:// URI.
// The generative models on the Vertex backend read multimodal inputs
// directly from GCS, so pipeline stages use this to hand files to a model.
func (s *ObjectStore) StageFile(ctx context.Context, filePath, contentType string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open %s for staging: %w", filePath, err)
	}
	defer f.Close()

	objectName := fmt.Sprintf("staging/%s-%s", uuid.NewString(), path.Base(filePath))

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("stage %s to gs://%s: %w", filePath, s.bucket, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize gs://%s/%s: %w", s.bucket, objectName, err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// DeleteStaged removes an object previously returned by StageFile. Staged
// copies only exist for the duration of one model call; leaving them behind
// would grow the bucket without bound.
func (s *ObjectStore) DeleteStaged(ctx context.Context, uri string) error {
	prefix := fmt.Sprintf("gs://%s/", s.bucket)
	if !strings.HasPrefix(uri, prefix) {
		return fmt.Errorf("uri %s is not in bucket %s", uri, s.bucket)
	}
	objectName := strings.TrimPrefix(uri, prefix)
	if err := s.client.Bucket(s.bucket).Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("delete gs://%s/%s: %w", s.bucket, objectName, err)
	}
	return nil
}
