package main

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"strings"
)

type HttpLookupHandler struct {
	Resolver *FallbackResolver
}

func NewHttpLookupHandler(rsv *FallbackResolver) (h *HttpLookupHandler) {
	return &HttpLookupHandler{Resolver: rsv}
}

// ResolveGetHandler answers GET <path>?name=<host>&type=<A|AAAA|IP|SRV>
// with the resolved answer as json. type defaults to IP (both families).
func (h *HttpLookupHandler) ResolveGetHandler(c *gin.Context) {
	name_ := strings.TrimSpace(c.Query("name"))
	if name_ == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name param is empty"})
		return
	}
	var mode_ Mode
	switch strings.ToUpper(strings.TrimSpace(c.DefaultQuery("type", "IP"))) {
	case "A":
		mode_ = ModeIPv4
	case "AAAA":
		mode_ = ModeIPv6
	case "IP":
		mode_ = ModeDual
	case "SRV":
		mode_ = ModeSrv
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type param should be A, AAAA, IP or SRV"})
		return
	}
	answer_, err := h.Resolver.Resolve(name_, mode_)
	if err != nil {
		log.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, JsonModelFromAnswer(answer_))
}
