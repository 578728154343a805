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

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openspar/mapper/config"
)

const KeyHeader = "X-Mapper-Key"

// SecretKeyAuthMiddleware guards every route with the configured secret key
// when the server runs in secure mode.
func SecretKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cnf, err := config.Fetch()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "configuration not loaded"})
			return
		}

		key := c.GetHeader(KeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cnf.Server.SecretKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing " + KeyHeader + " header"})
			return
		}

		c.Next()
	}
}
