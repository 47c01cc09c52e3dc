package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/AKhanjyan/WhiteShopML/internal/auth"
)

const identityKey = "identity"

func SetIdentity(c *gin.Context, identity auth.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the caller resolved by Authenticate.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
