package middleware

import (
	"github.com/gin-gonic/gin"
)

const OperatorIDKey = "operator_id"

// OperatorIdentity reads the X-Operator-ID header and stores it on the
// context. The value is accepted as-is — authentication is handled (or not)
// upstream; the ledger only attributes sessions to whoever opened them.
func OperatorIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Operator-ID")
		if id == "" {
			id = "anonymous"
		}
		c.Set(OperatorIDKey, id)
		c.Next()
	}
}

// GetOperatorID retrieves the operator identifier set by OperatorIdentity.
func GetOperatorID(c *gin.Context) string {
	return c.GetString(OperatorIDKey)
}
