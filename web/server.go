package web

import (
	"net/http"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/keymotion/library"
)

var ServerLibrary *library.Library

func NewRouter(webPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/motions", HandlerAjaxMotions).Methods("GET")
	r.HandleFunc("/json/motion/{file}", HandlerAjaxMotion).Methods("GET")
	r.HandleFunc("/json/motion/{file}/sample/{time}", HandlerAjaxMotionSample).Methods("GET")
	r.HandleFunc("/action/motion/{file}/optimize", HandlerActionMotionOptimize).Methods("POST")
	r.HandleFunc("/action/motion/{file}/resample/{rate}", HandlerActionMotionResample).Methods("POST")
	r.HandleFunc("/dump/motion/{file}", HandlerDumpMotion).Methods("GET")
	r.HandleFunc("/dump/motion/{file}/glb", HandlerDumpMotionGlb).Methods("GET")
	r.HandleFunc("/dump/motion/{file}/spew", HandlerDumpMotionSpew).Methods("GET")
	r.HandleFunc("/ws/motion/{file}/play", HandlerWsMotionPlay)

	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	}
	return r
}

func StartServer(addr string, lib *library.Library, webPath string) error {
	ServerLibrary = lib

	var h http.Handler = NewRouter(webPath)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(logrus.StandardLogger()), handlers.PrintRecoveryStack(true))(h)
	h = handlers.LoggingHandler(logrus.StandardLogger().Writer(), h)

	logrus.Infof("[web] Starting server %v, library %q", addr, lib.Path())

	return http.ListenAndServe(addr, h)
}
