package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const decisionKey = "auth_decision"

// Require returns a gin middleware enforcing policy. A decision made earlier
// in the chain (by Guard) is reused rather than verified again.
func (g *Gate) Require(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d Decision
		if prev, ok := decisionFrom(c); ok {
			d = prev.Authorize(policy)
		} else {
			d = g.Evaluate(c.GetHeader("Authorization"), policy)
		}

		if !d.Allowed() {
			zap.L().Debug("request rejected by auth gate",
				zap.String("path", c.Request.URL.Path),
				zap.String("reason", d.Err.Message),
			)
			c.AbortWithStatusJSON(d.Err.Code, gin.H{"error": d.Err.Message})
			return
		}
		if d.State != StateUnverified {
			c.Set(decisionKey, d)
		}
		c.Next()
	}
}

func (g *Gate) Authenticated() gin.HandlerFunc { return g.Require(PolicyAuthenticated) }

func (g *Gate) Admin() gin.HandlerFunc { return g.Require(PolicyAdmin) }

// Guard authenticates every request that is not on the exemption list.
func (g *Gate) Guard() gin.HandlerFunc {
	authenticated := g.Require(PolicyAuthenticated)
	return func(c *gin.Context) {
		if g.IsExempt(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}
		authenticated(c)
	}
}

// PrincipalFrom returns the principal verified for this request, if any.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	d, ok := decisionFrom(c)
	if !ok {
		return Principal{}, false
	}
	return d.Principal, true
}

func decisionFrom(c *gin.Context) (Decision, bool) {
	v, ok := c.Get(decisionKey)
	if !ok {
		return Decision{}, false
	}
	d, ok := v.(Decision)
	return d, ok
}
