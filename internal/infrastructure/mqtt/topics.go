package mqtt

import "strings"

// TopicPrefix is the root of every node topic.
const TopicPrefix = "graylogic/node"

// Topics builds the topics of one node.
//
//	topics := mqtt.Topics{Node: "pump-house"}
//	topics.Values() // "graylogic/node/pump-house/values"
type Topics struct {
	Node string
}

func (t Topics) topic(leaf string) string {
	return TopicPrefix + "/" + t.Node + "/" + leaf
}

// Values is where the node publishes its values document.
func (t Topics) Values() string { return t.topic("values") }

// Set carries values documents to apply.
func (t Topics) Set() string { return t.topic("set") }

// Command carries lifecycle commands.
func (t Topics) Command() string { return t.topic("command") }

// Result is where the node reports the outcome of a command.
func (t Topics) Result() string { return t.topic("result") }

// Status holds the retained online/offline state.
func (t Topics) Status() string { return t.topic("status") }

// AllNodes matches every node's status; used by tools watching a site.
func (Topics) AllNodes() string { return TopicPrefix + "/+/status" }

// NodeOf returns the node id in a node topic, or "" for other topics.
func NodeOf(topic string) string {
	rest, ok := strings.CutPrefix(topic, TopicPrefix+"/")
	if !ok {
		return ""
	}
	id, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return id
}
