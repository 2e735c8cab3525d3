// Package monitoring turns a running experiment into a web server, so the
// machine state can be inspected and driven while beans are falling.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/galtonlab/quincunx/galton"
)

// Monitor exposes a machine over HTTP and allows external stepping of the
// simulation.
type Monitor struct {
	machine     *galton.Machine
	portNumber  int
	openBrowser bool

	stepLock sync.Mutex
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open the server URL in the default browser
// once it is listening.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true

	return m
}

// RegisterMachine registers the machine to be monitored.
func (m *Monitor) RegisterMachine(machine *galton.Machine) {
	m.machine = machine
}

// StartServer starts the monitor as a web server, on a random port unless
// one was configured.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/state", m.machineState)
	r.HandleFunc("/api/slots", m.listSlots)
	r.HandleFunc("/api/step", m.step)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	if m.openBrowser {
		err = browser.OpenURL(url)
		dieOnErr(err)
	}
}

func (m *Monitor) machineState(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.machine)
	serializer.SetMaxDepth(2)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listSlots(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i := 0; i < m.machine.SlotCount(); i++ {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%d", m.machine.SlotBeanCount(i))
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) step(w http.ResponseWriter, _ *http.Request) {
	m.stepLock.Lock()
	changed := m.machine.AdvanceStep()
	m.stepLock.Unlock()

	fmt.Fprintf(w, "{\"changed\":%t}", changed)
}

func (m *Monitor) run(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		m.stepLock.Lock()
		defer m.stepLock.Unlock()

		for m.machine.AdvanceStep() {
		}
	}()
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
