/*
Copyright 2025 OpenSPAR Mapper Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/openspar/mapper/model"
)

// ValidateMapperRequest checks the structural shape of an inbound envelope
// before any protocol semantics run. The action only has to be present here;
// whether it matches the endpoint is a protocol-level check answered with a
// rejected envelope, not a transport error.
func ValidateMapperRequest(req *model.MapperRequest) error {
	if err := validation.ValidateStruct(&req.Header,
		validation.Field(&req.Header.MessageID, validation.Required),
		validation.Field(&req.Header.Action, validation.Required),
	); err != nil {
		return err
	}

	return validation.ValidateStruct(&req.Message,
		validation.Field(&req.Message.TransactionID, validation.Required),
	)
}
