// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"testing"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateFeed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFeedRepo := feed.NewMockRepository(ctrl)

	feedSvc := &UseCase{
		FeedRepo: mockFeedRepo,
	}

	validInput := &model.CreateFeedInput{
		Name:        "ledger-balances",
		Description: "Hourly balance replication",
		SourceURL:   "https://ledger.example.com",
		Resource:    "v1/balances",
		PageLimit:   100,
		Metadata:    map[string]any{"team": "treasury"},
	}

	tests := []struct {
		name        string
		input       *model.CreateFeedInput
		mockSetup   func()
		expectErr   bool
		errContains string
	}{
		{
			name:  "Success - Create a feed",
			input: validInput,
			mockSetup: func() {
				mockFeedRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, f *feed.Feed) (*feed.Feed, error) {
						return f, nil
					})
			},
			expectErr: false,
		},
		{
			name: "Success - Zero page limit falls back to the default",
			input: &model.CreateFeedInput{
				Name:      "ledger-balances",
				SourceURL: "https://ledger.example.com",
				Resource:  "v1/balances",
			},
			mockSetup: func() {
				mockFeedRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, f *feed.Feed) (*feed.Feed, error) {
						return f, nil
					})
			},
			expectErr: false,
		},
		{
			name: "Error - Invalid source URL",
			input: &model.CreateFeedInput{
				Name:      "ledger-balances",
				SourceURL: "ftp://ledger.example.com",
				Resource:  "v1/balances",
			},
			mockSetup:   func() {},
			expectErr:   true,
			errContains: constant.ErrInvalidSourceURL.Error(),
		},
		{
			name: "Error - Missing resource",
			input: &model.CreateFeedInput{
				Name:      "ledger-balances",
				SourceURL: "https://ledger.example.com",
			},
			mockSetup:   func() {},
			expectErr:   true,
			errContains: constant.ErrMissingRequiredFields.Error(),
		},
		{
			name:  "Error - Duplicate feed name",
			input: validInput,
			mockSetup: func() {
				mockFeedRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, pkg.ValidateBusinessError(constant.ErrDuplicateFeedName, "", "ledger-balances"))
			},
			expectErr:   true,
			errContains: "already exists",
		},
		{
			name:  "Error - Repository failure",
			input: validInput,
			mockSetup: func() {
				mockFeedRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, constant.ErrInternalServer)
			},
			expectErr:   true,
			errContains: constant.ErrInternalServer.Error(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			ctx := context.Background()
			result, err := feedSvc.CreateFeed(ctx, tt.input)

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.input.Name, result.Name)
			assert.Equal(t, tt.input.SourceURL, result.SourceURL)
			assert.Equal(t, tt.input.Resource, result.Resource)
			assert.Equal(t, constant.IdleStatus, result.Status)
			assert.NotEqual(t, "", result.ID.String())

			if tt.input.PageLimit > 0 {
				assert.Equal(t, tt.input.PageLimit, result.PageLimit)
			} else {
				assert.Equal(t, constant.DefaultSourcePageLimit, result.PageLimit)
			}

			if tt.input.Metadata != nil {
				assert.Equal(t, tt.input.Metadata, result.Metadata)
			}
		})
	}
}
