/*
Package device groups Quobyte storage devices by the host that reports them and
tags each host group for host-affinity benchmarks.

# Listing Format

The input is the free text table printed by "qmgmt device list". A row is used
only when it contains the literal marker DATA; its whitespace separated tokens
start with the device id followed by the host id:

	Id  Host        Mode    Type  Services  Tags
	1   qb-node-a   ONLINE  HDD   DATA
	2   qb-node-a   ONLINE  HDD   DATA
	3   qb-node-b   ONLINE  SSD   DATA

A qualifying row with fewer than two tokens is rejected with ErrMalformedRow.

# Tagging

Hosts are numbered in the order they first appear, starting at zero. Every
device of host N receives the tag "hostN":

	groups, err := device.ParseListing(listing)
	if err != nil {
		return err
	}
	res, err := device.NewTagger(client).Apply(ctx, groups)

The result lists the assignments and the first four hosts (TagResult.Tracked);
Third and Fourth give the hosts tagged host2 and host3. Tagging is not
idempotent, so running it twice issues every command twice.
*/
package device
