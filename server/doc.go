/*
Package server is the HTTP API in front of a railrouter.Service.

	GET  /api/health
	GET  /api/worlds
	GET  /api/worlds/:world/route?from=&to=&mode=
	POST /api/route
	POST /api/route/coordinates
	POST /api/worlds/:world/invalidate

Malformed requests get 400 with an invalid_query result. Everything the
planner answers, including failures such as no_path, is returned with 200
and the result's ok flag.
*/
package server
