package mcpserver

// RoutineFormat describes the arguments generate_timetable expects and the
// note layout create_note produces.
const RoutineFormat = `# BrainBrew Routine Format

A timetable is generated from a daily routine, a list of subject names and the
days of the week it applies to. Every active day receives the same layout.

## Routine

` + "```" + `json
{
  "wake_up_time": "06:00",        // REQUIRED, HH:MM 24h
  "sleep_time": "22:00",          // REQUIRED, must be after wake_up_time
  "breakfast_time": "07:00",      // 30 minute meal
  "lunch_time": "12:30",          // 30 minute meal
  "dinner_time": "19:00",         // 30 minute meal
  "exercise_time": "17:00",       // OPTIONAL, 60 minutes
  "study_hours_per_day": 6,       // 0 to 24, may be fractional
  "preferred_study_time": "morning"
}
` + "```" + `

## Rules

1. Times are ` + "`HH:MM`" + ` between 00:00 and 23:59. Anything else is rejected.
2. Study sessions are at most 50 minutes and are followed by a 15 minute
   break when the break fits before the next fixed event.
3. Subjects rotate round robin, restarting from the first subject each day.
4. Gaps that cannot hold a session become free time, so the day is covered
   from wake up to sleep without overlaps.
5. Events before wake up or at/after sleep are dropped; events running past
   sleep are cut at sleep.
6. ` + "`preferred_study_time`" + ` (morning, afternoon, evening, night) is stored
   but does not change the layout.
7. ` + "`active_days`" + ` are lowercase English weekday names. Duplicates are ignored.
8. Subjects must already exist (see ` + "`list_subjects`" + `); matching ignores case.

## Notes

` + "`create_note`" + ` files notes under a folder named after the subject:

` + "```" + `markdown
---
title: Cell Structure
subject: Biology
tags:
  - exam
---

Body text in standard Markdown. Inline #tags are indexed too.
` + "```" + `
`
