package service

import "net/http"

const (
	statusOK    = http.StatusOK
	statusError = http.StatusInternalServerError
)

const fallbackErrorPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Error</title></head>
<body><section role="alert"><h1>Error</h1><p>%s</p></section></body></html>
`
