// Package http implements the HTTP handlers of the leadscope service.
// Handlers stay thin: they decode and validate the request, call one
// service and render the result. Failures are handed to the shared
// errors.ErrorHandler, which answers with RFC 7807 problem details.
//
// # Routes
//
//	GET  /                                greeting (wake-up ping)
//	GET  /health, /health/live, /health/ready, /version
//	POST /csv-parser/upload-and-classify  multipart "file"
//	POST /csv-parser/parse                multipart "file" (.csv or .xlsx)
//	POST /ai-classification/classify
//	POST /ai-classification/three-s
//	POST /dashboard
//	POST /dashboard/filter-options
//	POST /dashboard/export?format=csv|xlsx|sheets
//	GET  /ws                              upload progress events
//	GET  /metrics
//
// # Handler Structure
//
// Each handler follows this pattern:
//
//	func (h *Handler) HandleSomething(w http.ResponseWriter, r *http.Request) {
//	    var req api.SomethingRequest
//	    if err := h.validator.Decode(w, r, &req); err != nil {
//	        h.errorHandler.HandleError(w, r, err)
//	        return
//	    }
//	    result, err := h.service.DoSomething(r.Context(), req)
//	    if err != nil {
//	        h.errorHandler.HandleError(w, r, err)
//	        return
//	    }
//	    render.JSON(w, r, result)
//	}
//
// Handlers depend on the small interfaces in interfaces.go, so tests drive
// them with testify mocks and httptest.
package http
