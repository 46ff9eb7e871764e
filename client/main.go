package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// send wraps a payload in the typed JSON envelope and sends it.
func send(c *websocket.Conn, msgType string, payload interface{}) error {
	envelope := map[string]interface{}{"type": msgType}
	if payload != nil {
		envelope["data"] = payload
	}
	frame, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, frame)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	addr := "localhost:8080"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV: %s", string(message))
		}
	}()

	log.Println("Commands: join <id> <name> | roll | goto <pos> | buy <prop> | sell <prop> | mortgage <prop> | unmortgage <prop> | build <prop> | end | giveup | rent <prop> | tax <amount> <type> | card <chance|chest> | cheat <code> | trade <to> <money> | accept | decline")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(strings.TrimSpace(text))
			if len(fields) == 0 {
				continue
			}
			if err := dispatch(c, fields); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}

func dispatch(c *websocket.Conn, fields []string) error {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "join":
		if len(args) < 2 {
			log.Println("Usage: join <id> <name>")
			return nil
		}
		return send(c, "join", map[string]interface{}{"userId": args[0], "name": strings.Join(args[1:], " ")})
	case "roll":
		return send(c, "roll", nil)
	case "goto":
		if len(args) < 1 {
			log.Println("Usage: goto <pos>")
			return nil
		}
		pos, _ := strconv.Atoi(args[0])
		return send(c, "manual-roll", map[string]interface{}{"position": pos})
	case "buy", "sell", "mortgage", "unmortgage":
		if len(args) < 1 {
			log.Println("Usage:", cmd, "<propertyId>")
			return nil
		}
		msgType := cmd + "-property"
		if cmd == "mortgage" || cmd == "unmortgage" {
			msgType = cmd
		}
		return send(c, msgType, map[string]interface{}{"propertyId": args[0]})
	case "build":
		if len(args) < 1 {
			log.Println("Usage: build <propertyId>")
			return nil
		}
		return send(c, "build-house", map[string]interface{}{"propertyId": args[0]})
	case "end":
		return send(c, "end-turn", nil)
	case "giveup":
		return send(c, "give-up", map[string]interface{}{})
	case "rent":
		if len(args) < 1 {
			log.Println("Usage: rent <propertyId>")
			return nil
		}
		return send(c, "pay-rent", map[string]interface{}{"propertyId": args[0]})
	case "tax":
		if len(args) < 2 {
			log.Println("Usage: tax <amount> <type>")
			return nil
		}
		amount, _ := strconv.Atoi(args[0])
		return send(c, "pay-tax", map[string]interface{}{"amount": amount, "taxType": args[1]})
	case "card":
		if len(args) < 1 {
			log.Println("Usage: card <chance|chest>")
			return nil
		}
		return send(c, "pull-card", map[string]interface{}{"cardType": args[0]})
	case "cheat":
		if len(args) < 1 {
			log.Println("Usage: cheat <code>")
			return nil
		}
		return send(c, "cheat", map[string]interface{}{"code": args[0]})
	case "trade":
		if len(args) < 2 {
			log.Println("Usage: trade <to> <money>")
			return nil
		}
		money, _ := strconv.Atoi(args[1])
		return send(c, "propose-trade", map[string]interface{}{"to": args[0], "offeredMoney": money})
	case "accept":
		return send(c, "respond-trade", map[string]interface{}{"responseType": "ACCEPT"})
	case "decline":
		return send(c, "respond-trade", map[string]interface{}{"responseType": "DECLINE"})
	default:
		log.Println("Unknown command:", cmd)
		return nil
	}
}
