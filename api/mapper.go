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
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mapper "github.com/openspar/mapper"
	model2 "github.com/openspar/mapper/api/model"
	"github.com/openspar/mapper/internal/apierror"
	"github.com/openspar/mapper/model"
)

// SyncOperation executes one batch inline and returns the full response
// envelope. A header action that does not match the endpoint is a protocol
// rejection, not a transport error: the envelope comes back rjct over 200.
func (a Api) SyncOperation(op model.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.MapperRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
			return
		}

		if err := model2.ValidateMapperRequest(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
			return
		}

		if verr := mapper.ValidateRequestHeader(&req, op); verr != nil {
			c.JSON(http.StatusOK, mapper.AssembleErrorResponse(&req, op, verr))
			return
		}

		responses, err := a.mapper.Process(c.Request.Context(), op, &req)
		if err != nil {
			c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, mapper.AssembleSyncResponse(&req, op, responses))
	}
}

// AsyncOperation accepts the batch, answers with an ack carrying the
// correlation id, and leaves the outcome to the callback. A header mismatch
// is refused up front with a nack; the error envelope still goes out on the
// callback path so the caller's handler hears about it.
func (a Api) AsyncOperation(op model.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.MapperRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
			return
		}

		if err := model2.ValidateMapperRequest(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
			return
		}

		if verr := mapper.ValidateRequestHeader(&req, op); verr != nil {
			if _, err := a.mapper.SubmitErrorCallback(op, &req, verr); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, mapper.AssembleAsyncNack(verr.Message))
			return
		}

		correlationID, _, err := a.mapper.SubmitAsync(op, &req)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, mapper.AssembleAsyncAck(correlationID))
	}
}
