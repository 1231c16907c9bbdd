package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/ryogrid/QueryCore/engine"
	"github.com/ryogrid/QueryCore/execution/scheduler"
	"github.com/ryogrid/QueryCore/planner"
	"github.com/ryogrid/QueryCore/server/signal_handle"
	"github.com/ugorji/go/codec"
)

type QueryInput struct {
	Query   string
	Dialect string
}

type Node struct {
	ID           int
	Operation    string
	Dependencies []int
}

type PlanOutput struct {
	Nodes []Node
	Root  int
	Order []int
	Waves []int
	Error string
}

var engines = map[engine.Dialect]*engine.QueryCore{
	engine.NATIVE: engine.NewQueryCore(engine.WithDialect(engine.NATIVE)),
	engine.MYSQL:  engine.NewQueryCore(engine.WithDialect(engine.MYSQL)),
}

func makePlanOutput(input *QueryInput) (*PlanOutput, int, error) {
	if input.Query == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("Query is required")
	}
	dialect, err := engine.ParseDialect(input.Dialect)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	plan, steps, err := engines[dialect].ScheduleSQL(input.Query)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return toPlanOutput(plan, steps), http.StatusOK, nil
}

func toPlanOutput(plan *planner.ExecutionPlan, steps []scheduler.Step) *PlanOutput {
	out := &PlanOutput{Nodes: make([]Node, 0, plan.Len()), Root: int(plan.Root()), Error: "SUCCESS"}
	for _, n := range plan.Nodes() {
		deps := make([]int, 0, len(n.GetDependencies()))
		for _, d := range n.GetDependencies() {
			deps = append(deps, int(d))
		}
		out.Nodes = append(out.Nodes, Node{int(n.GetID()), n.GetOperation().String(), deps})
	}
	for _, s := range steps {
		out.Waves = append(out.Waves, s.First)
		out.Order = append(out.Order, int(s.Second))
	}
	return out
}

func postPlan(w rest.ResponseWriter, req *rest.Request) {
	if signal_handle.IsStopped() {
		rest.Error(w, "Server is stopped", http.StatusGone)
		return
	}

	input := QueryInput{}
	if err := req.DecodeJsonPayload(&input); err != nil {
		rest.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, status, err := makePlanOutput(&input)
	if err != nil {
		rest.Error(w, err.Error(), status)
		return
	}
	w.WriteJson(out)
}

func postPlanMsgPack(w rest.ResponseWriter, req *rest.Request) {
	if signal_handle.IsStopped() {
		http.Error(w.(http.ResponseWriter), "Server is stopped", http.StatusGone)
		return
	}

	input := QueryInput{}
	if err := req.DecodeJsonPayload(&input); err != nil {
		http.Error(w.(http.ResponseWriter), err.Error(), http.StatusBadRequest)
		return
	}

	out, status, err := makePlanOutput(&input)
	if err != nil {
		http.Error(w.(http.ResponseWriter), err.Error(), status)
		return
	}

	buf, err := encodeMsgPack(out)
	if err != nil {
		http.Error(w.(http.ResponseWriter), err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.(http.ResponseWriter).Write(buf)
}

func encodeMsgPack(out *PlanOutput) ([]byte, error) {
	var buf bytes.Buffer
	var h codec.Handle = new(codec.MsgpackHandle)
	if err := codec.NewEncoder(&buf, h).Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func makeHandler() (http.Handler, error) {
	api := rest.NewApi()

	api.Use(rest.DefaultDevStack...)
	api.Use(&rest.CorsMiddleware{
		RejectNonCorsRequests: false,
		OriginValidator: func(origin string, request *rest.Request) bool {
			return true
		},
		AllowedMethods:                []string{"POST"},
		AllowedHeaders:                []string{"Accept", "content-type"},
		AccessControlAllowCredentials: true,
		AccessControlMaxAge:           3600,
	})

	router, err := rest.MakeRouter(
		rest.Post("/Plan", postPlan),
		rest.Post("/PlanMsgPack", postPlanMsgPack),
	)
	if err != nil {
		return nil, err
	}
	api.SetApp(router)
	return api.MakeHandler(), nil
}

func launchAndListen() {
	handler, err := makeHandler()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Server started")
	log.Fatal(http.ListenAndServe("0.0.0.0:19999", handler))
}

func main() {
	exitNotifyCh := make(chan bool, 1)

	go signal_handle.SignalHandlerTh(exitNotifyCh, engines[engine.NATIVE], engines[engine.MYSQL])
	go launchAndListen()

	<-exitNotifyCh

	fmt.Println("Server is stopped gracefully")
	os.Exit(0)
}
