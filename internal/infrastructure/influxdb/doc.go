// Package influxdb records node Tag values in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library: a non-blocking,
// batched write API plus a ping-based health check. Every publish
// interval the node hands its data values to WriteTagValues, which
// writes one point per numeric or boolean Tag:
//
//	tag_value,node=<id>,function=<name>,tag=<tag> value=<float>
//
// Booleans are written as 0/1 so every series of the measurement shares
// one field type. Strings and byte arrays are skipped.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB, cfg.Node.ID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteTagValues(elements, time.Now())
package influxdb
