// Command client is a minimal display agent: it keeps a websocket
// connection to the wallboard server and reacts to events by opening
// the referenced URL on the local machine.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type event struct {
	Name string `json:"event"`
	URL  string `json:"url"`
}

func main() {
	server := flag.String("server", "localhost:3030", "wallboard host:port")
	flag.Parse()

	wsURL := url.URL{Scheme: "ws", Host: *server, Path: "/ws"}
	for {
		listen(wsURL.String(), *server)
		time.Sleep(time.Second)
	}
}

func listen(wsURL, server string) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Printf("connect to %s failed: %v", wsURL, err)
		return
	}
	defer conn.Close()
	log.Printf("connected to %s", wsURL)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("read failed: %v", err)
			return
		}
		var ev event
		if err := json.Unmarshal(msg, &ev); err != nil {
			log.Printf("bad event payload: %v", err)
			continue
		}
		dispatch(ev, server)
	}
}

func dispatch(ev event, server string) {
	if ev.URL == "" {
		log.Printf("event %q without url", ev.Name)
		return
	}
	switch ev.Name {
	case "media", "video", "song":
		openURL("http://" + server + ev.URL)
	case "raw_url":
		if !strings.HasPrefix(ev.URL, "http://") && !strings.HasPrefix(ev.URL, "https://") {
			log.Printf("refusing non-http url %q", ev.URL)
			return
		}
		openURL(ev.URL)
	default:
		log.Printf("unknown event %q", ev.Name)
	}
}

func openURL(u string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", u)
	case "darwin":
		cmd = exec.Command("open", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	if err := cmd.Run(); err != nil {
		log.Printf("open %s failed: %v", u, err)
	}
}
