package middleware

import (
	"Orion_Tube/pkg/errno"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken = errno.Unauthorized.WithMessage("请求未包含授权令牌")
	errBadFormat    = errno.Unauthorized.WithMessage("授权令牌格式不正确")
	errBadToken     = errno.Unauthorized.WithMessage("无效的授权令牌")
)

// 中间件工厂，改成AuthMiddleware(role string)，就能创建一个只允许特定角色的用户通过的中间件
// 流程：1、从http请求中取出"Authorization"字段 2、验证"Bearer [token]" 3、通过secretKey验证token有效性 4、若成功，从token中取出后续用到的用户信息，放入context
func AuthMiddleware(secret string) gin.HandlerFunc {
	secretKey := []byte(secret)
	return func(c *gin.Context) {
		claims, err := parseBearer(c.GetHeader("Authorization"), secretKey)
		if err != nil {
			// 立刻中止，阻止后续的任何处理器（包括其他中间件和最终的handler）被执行
			abort(c, err)
			return
		}
		setPrincipal(c, claims)
		// 放行，继续处理请求
		c.Next()
	}
}

// OptionalAuthMiddleware 读接口用：没带token按匿名处理，带了但无效仍然拒绝
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	secretKey := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		claims, err := parseBearer(header, secretKey)
		if err != nil {
			abort(c, err)
			return
		}
		setPrincipal(c, claims)
		c.Next()
	}
}

func parseBearer(authHeader string, secretKey []byte) (jwt.MapClaims, error) {
	if authHeader == "" {
		return nil, errMissingToken
	}
	// 通常Token的格式是 "Bearer [token]"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errBadFormat
	}

	// 解析Token，返回加密前的token（Header.Payload.Signature），还附带valid判断是否有效
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		// 确保签名方法是对称加密族
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名方法")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errBadToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errBadToken
	}
	// user_id必须是数字，后面的handler会按float64断言
	if _, ok := claims["user_id"].(float64); !ok {
		return nil, errBadToken
	}
	return claims, nil
}

// Token验证成功！将用户信息存入Context，以便后续使用
func setPrincipal(c *gin.Context, claims jwt.MapClaims) {
	c.Set("userID", claims["user_id"])
	c.Set("username", claims["username"])
}

func abort(c *gin.Context, err error) {
	e := errno.ConvertErr(err)
	c.AbortWithStatusJSON(e.Status, gin.H{
		"status":  e.Status,
		"message": e.Msg,
		"success": false,
	})
}
