package services

import (
	"net/http"
	"sync"
	"time"
)

var DefaultHttpClient = sync.OnceValue(func() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
	}
})
