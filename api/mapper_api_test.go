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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	mapper "github.com/openspar/mapper"
	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/database"
	"github.com/openspar/mapper/internal/request"
	"github.com/openspar/mapper/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	config.MockConfig(&config.Configuration{
		DataSource: config.DataSourceConfig{Dns: "postgres://postgres:@localhost:5432/mapper?sslmode=disable"},
	})

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m, err := mapper.NewMapper(database.Datasource{Conn: db})
	if err != nil {
		t.Fatalf("Failed to create mapper: %v", err)
	}
	router := NewAPI(m).Router()
	return router, mock
}

func newMapperRequest(op model.Operation, items []model.Item) *model.MapperRequest {
	req := &model.MapperRequest{
		Header: model.RequestHeader{
			Version:   model.ProtocolVersion,
			MessageID: gofakeit.UUID(),
			MessageTS: time.Now().Format(time.RFC3339),
			Action:    string(op),
			SenderID:  "registry.caller",
		},
		Message: model.RequestMessage{TransactionID: gofakeit.UUID()},
	}
	req.Message.SetItems(op, items)
	return req
}

func TestSyncLink(t *testing.T) {
	router, mock := setupRouter(t)

	payload := newMapperRequest(model.OpLink, []model.Item{
		{ReferenceID: gofakeit.UUID(), ID: "token:registry@" + gofakeit.UUID(), FA: "account:bank1@" + gofakeit.UUID(), Name: gofakeit.Name()},
	})
	body, _ := request.ToJsonReq(payload)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO id_fa_mappings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var response model.MapperResponse
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Router:   router,
		Response: &response,
		Method:   "POST",
		Route:    "/mapper/sync/link",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.StatusSucc, response.Header.Status)
	assert.Equal(t, 1, response.Header.TotalCount)
	assert.Equal(t, 1, response.Header.CompletedCount)
	assert.Len(t, response.Message.LinkResponse, 1)
	assert.Equal(t, model.StatusSucc, response.Message.LinkResponse[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncLink_ActionCaseMismatch(t *testing.T) {
	router, mock := setupRouter(t)

	payload := newMapperRequest(model.OpLink, nil)
	payload.Header.Action = "Link"
	body, _ := request.ToJsonReq(payload)

	var response model.MapperResponse
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Router:   router,
		Response: &response,
		Method:   "POST",
		Route:    "/mapper/sync/link",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.StatusRjct, response.Header.Status)
	assert.Equal(t, model.ReasonActionNotSupported, response.Header.StatusReasonCode)

	// The batch never started.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSync_MalformedJSON(t *testing.T) {
	router, _ := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  strings.NewReader("{not json"),
		Router:   router,
		Response: &response,
		Method:   "POST",
		Route:    "/mapper/sync/resolve",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSync_MissingMessageID(t *testing.T) {
	router, _ := setupRouter(t)

	payload := newMapperRequest(model.OpUpdate, nil)
	payload.Header.MessageID = ""
	body, _ := request.ToJsonReq(payload)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Router:   router,
		Response: &response,
		Method:   "POST",
		Route:    "/mapper/sync/update",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSyncResolve_StoreFault(t *testing.T) {
	router, mock := setupRouter(t)

	payload := newMapperRequest(model.OpResolve, []model.Item{
		{ReferenceID: gofakeit.UUID(), ID: "A"},
	})
	body, _ := request.ToJsonReq(payload)

	mock.ExpectBegin().WillReturnError(assert.AnError)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Router:   router,
		Response: &response,
		Method:   "POST",
		Route:    "/mapper/sync/resolve",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestAsyncLink_Ack(t *testing.T) {
	router, mock := setupRouter(t)

	payload := newMapperRequest(model.OpLink, []model.Item{
		{ReferenceID: gofakeit.UUID(), ID: gofakeit.UUID(), FA: gofakeit.UUID()},
	})
	body, _ := request.ToJsonReq(payload)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO id_fa_mappings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var response model.AsyncResponse
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Router:   router,
		Response: &response,
		Method:   "POST",
		Route:    "/mapper/async/link",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.AckACK, response.Message.AckStatus)
	assert.NotEmpty(t, response.Message.CorrelationID)

	// The batch runs on the dispatch pool after the ack went out.
	assert.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, time.Second, 10*time.Millisecond)
}

func TestAsyncLink_ActionCaseMismatchNack(t *testing.T) {
	router, _ := setupRouter(t)

	payload := newMapperRequest(model.OpLink, nil)
	payload.Header.Action = "Link"
	body, _ := request.ToJsonReq(payload)

	var response model.AsyncResponse
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Router:   router,
		Response: &response,
		Method:   "POST",
		Route:    "/mapper/async/link",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, model.AckNACK, response.Message.AckStatus)
	assert.Empty(t, response.Message.CorrelationID)
}

func TestGetAllMappings(t *testing.T) {
	router, mock := setupRouter(t)

	createdAt := time.Now()
	additionalInfoJSON, _ := json.Marshal([]model.AdditionalInfo{{Name: "branch", Value: "east"}})
	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"mapping_id", "id_value", "fa_value", "name", "phone", "additional_info", "active", "created_at",
		}).AddRow("map_1", "A", "X", "Asha", "111", additionalInfoJSON, true, createdAt))

	var response []model.MappingRecord
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  strings.NewReader(""),
		Router:   router,
		Response: &response,
		Method:   "GET",
		Route:    "/mappings",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, response, 1)
	assert.Equal(t, "A", response[0].IDValue)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllMappings_BadLimit(t *testing.T) {
	router, _ := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  strings.NewReader(""),
		Router:   router,
		Response: &response,
		Method:   "GET",
		Route:    "/mappings?limit=0",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
