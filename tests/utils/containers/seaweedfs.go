// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package containers

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	SeaweedBucket    = "datafeed-snapshots"
	SeaweedAccessKey = "any"
	SeaweedSecretKey = "any"
	SeaweedRegion    = "us-east-1"

	seaweedDefaultImage = "chrislusf/seaweedfs:3.97"
	seaweedS3Port       = "8333/tcp"
	seaweedMasterPort   = "9333/tcp"

	bucketRetries = 10
)

// SeaweedFSContainer runs SeaweedFS in S3 mode as the snapshot store backend.
type SeaweedFSContainer struct {
	testcontainers.Container
	S3Endpoint string
}

// StartSeaweedFS starts a SeaweedFS container and provisions the snapshot bucket.
func StartSeaweedFS(ctx context.Context, networkName, image string) (*SeaweedFSContainer, error) {
	if image == "" {
		image = seaweedDefaultImage
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{seaweedS3Port, seaweedMasterPort},
			Cmd:          []string{"server", "-s3", "-dir=/data"},
			Networks:     []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {"seaweedfs", "datafeed-seaweedfs"},
			},
			WaitingFor: wait.ForAll(
				wait.ForHTTP("/cluster/status").WithPort(seaweedMasterPort),
				wait.ForListeningPort(seaweedS3Port),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start seaweedfs container: %w", err)
	}

	endpoint, err := s3EndpointOf(ctx, ctr)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, err
	}

	sc := &SeaweedFSContainer{Container: ctr, S3Endpoint: endpoint}

	if err := sc.provisionBucket(ctx); err != nil {
		_ = ctr.Terminate(ctx)
		return nil, err
	}

	return sc, nil
}

// s3EndpointOf resolves the host-reachable URL of the container's S3 gateway.
func s3EndpointOf(ctx context.Context, ctr testcontainers.Container) (string, error) {
	host, err := ctr.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get seaweedfs host: %w", err)
	}

	mapped, err := ctr.MappedPort(ctx, seaweedS3Port)
	if err != nil {
		return "", fmt.Errorf("get seaweedfs s3 mapped port: %w", err)
	}

	return fmt.Sprintf("http://%s:%s", host, mapped.Port()), nil
}

// provisionBucket creates the snapshot bucket, retrying while the S3
// gateway finishes coming up behind the listening port.
func (s *SeaweedFSContainer) provisionBucket(ctx context.Context) error {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(SeaweedRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			SeaweedAccessKey, SeaweedSecretKey, "")),
	)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.S3Endpoint)
		o.UsePathStyle = true
	})

	var lastErr error

	for attempt := 1; attempt <= bucketRetries; attempt++ {
		_, lastErr = client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(SeaweedBucket),
		})
		if lastErr == nil {
			return nil
		}

		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}

	return fmt.Errorf("create bucket %s after %d attempts: %w", SeaweedBucket, bucketRetries, lastErr)
}
