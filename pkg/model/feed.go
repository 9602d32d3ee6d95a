// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package model

// CreateFeedInput is a struct designed to encapsulate request create payload data.
//
// swagger:model CreateFeedInput
// @Description CreateFeedInput is the input payload to register a replication feed.
type CreateFeedInput struct {
	Name        string         `json:"name" validate:"required,max=256" example:"ledger-balances"`
	Description string         `json:"description" validate:"max=1024" example:"Hourly balance replication from the ledger"`
	SourceURL   string         `json:"sourceUrl" validate:"required,sourceurl" example:"https://ledger.example.com"`
	Resource    string         `json:"resource" validate:"required,max=256" example:"v1/balances"`
	PageLimit   int            `json:"pageLimit" validate:"gte=0,lte=1000" example:"100"`
	Metadata    map[string]any `json:"metadata,omitempty" validate:"dive,keys,keymax=100,endkeys,omitempty,nonested,valuemax=2000"`
} // @name CreateFeedInput

// UpdateFeedInput is a struct designed to encapsulate request update payload data.
// All fields are optional; absent fields keep their stored value.
//
// swagger:model UpdateFeedInput
// @Description UpdateFeedInput is the input payload to update a replication feed.
type UpdateFeedInput struct {
	Name        string         `json:"name" validate:"omitempty,max=256" example:"ledger-balances"`
	Description string         `json:"description" validate:"omitempty,max=1024" example:"Hourly balance replication from the ledger"`
	PageLimit   int            `json:"pageLimit" validate:"omitempty,gte=1,lte=1000" example:"100"`
	Metadata    map[string]any `json:"metadata,omitempty" validate:"dive,keys,keymax=100,endkeys,omitempty,nonested,valuemax=2000"`
} // @name UpdateFeedInput
